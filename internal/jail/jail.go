// Package jail holds the isolation description: the set of primitives
// applied to a supervised child before it execs the target program —
// chroot, working directory, hostname, stream redirection, namespace
// isolation, and whether to load a seccomp filter.
package jail

// Jail describes how a child process should be isolated before exec. All
// string fields are optional; an empty string means "take no action" for
// that step.
type Jail struct {
	ChrootPath string // chroot(2) target; empty = no chroot
	ChdirPath  string // chdir(2) target, applied after chroot; empty = no chdir
	Hostname   string // sethostname(2) value; only meaningful with UseNamespaces (new UTS ns)

	UseNamespaces bool // create new UTS/PID/IPC/NET namespaces via clone
	UseSeccomp    bool // load the seccomp allow-list filter before exec

	RedirectStdin  string // path opened "r" and dup2'd over fd 0, post-chroot
	RedirectStdout string // path opened "w" and dup2'd over fd 1, post-chroot
	RedirectStderr string // path opened "w" and dup2'd over fd 2, post-chroot
}
