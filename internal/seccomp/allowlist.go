package seccomp

// AllowList is the static set of syscalls the sandboxed child may use when
// Jail.UseSeccomp is set. Everything else kills the process (default action
// KILL). Known to cover simple C/C++ and Python 2.7 programs; extending it
// for other runtimes is a policy decision, not an engineering one.
var AllowList = []string{
	// File access and file descriptors
	"access",
	"open",
	"read",
	"write",
	"close",
	"fstat",
	"lstat",
	"stat",
	"ioctl",
	"lseek",
	"openat",
	"readlink",
	"getdents",
	"unlink",
	"dup",
	"dup2",
	"dup3",

	// Memory management
	"brk",
	"mmap",
	"mprotect",
	"munmap",

	// Process-info queries
	"getcwd",
	"getegid",
	"geteuid",
	"getgid",
	"getuid",
	"getrlimit",

	// Futex primitives
	"futex",
	"set_robust_list",

	// Signal machinery
	"rt_sigaction",
	"rt_sigprocmask",

	// Exec family, process teardown, thread/arch setup
	"execve",
	"exit_group",
	"set_tid_address",
	"arch_prctl",
}
