package jailinit

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/syndtr/gocapability/capability"
	"golang.org/x/sys/unix"

	"github.com/xelez/srun2/internal/logx"
	"github.com/xelez/srun2/internal/seccomp"
)

// jobFD is the file descriptor the parent hands the job description over,
// the first entry of exec.Cmd.ExtraFiles (which os/exec always places
// starting at fd 3, after stdin/stdout/stderr).
const jobFD = 3

// RunInit is the entry point the re-exec'd trampoline process runs instead
// of the supervisor's normal CLI. It never returns on success: the last
// step replaces the process image with the target program. On any setup
// failure it logs and exits 1 — a partially-jailed process must never reach
// the final exec.
func RunInit() {
	job, err := readJob()
	if err != nil {
		fatal("read job description", err)
	}

	// Step 2: parent-death signal and inherited-fd cleanup.
	if err := unix.Prctl(unix.PR_SET_PDEATHSIG, uintptr(unix.SIGKILL), 0, 0, 0); err != nil {
		logx.SysWarn("prctl(PR_SET_PDEATHSIG) failed", err)
	}
	closeInheritedFDs()

	// Step 3: hostname (only meaningful inside a new UTS namespace, but
	// harmless to attempt otherwise beyond a syscall failure we'd abort on
	// anyway if the caller asked for it without namespaces).
	if job.Jail.Hostname != "" {
		if err := unix.Sethostname([]byte(job.Jail.Hostname)); err != nil {
			fatal("sethostname", err)
		}
	}

	// Step 4: chroot.
	if job.Jail.ChrootPath != "" {
		if err := unix.Chroot(job.Jail.ChrootPath); err != nil {
			fatal("chroot", err)
		}
	}

	// Step 5: chdir, after chroot since the path is relative to the new root.
	if job.Jail.ChdirPath != "" {
		if err := unix.Chdir(job.Jail.ChdirPath); err != nil {
			fatal("chdir", err)
		}
	}

	// Step 6: stream redirection, before privilege drop so we still have
	// rights to open the target files.
	redirect(unix.Stdin, job.Jail.RedirectStdin, os.O_RDONLY, 0)
	redirect(unix.Stdout, job.Jail.RedirectStdout, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	redirect(unix.Stderr, job.Jail.RedirectStderr, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)

	// Step 7: drop privileges. gid before uid, or we'd lose the rights to
	// change gid once uid is dropped.
	if err := unix.Setgid(job.RealGID); err != nil {
		fatal("setgid", err)
	}
	if err := unix.Setuid(job.RealUID); err != nil {
		fatal("setuid", err)
	}
	dropCapabilities()
	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		logx.SysWarn("prctl(PR_SET_NO_NEW_PRIVS) failed", err)
	}

	// Step 8: seccomp, strictly after NO_NEW_PRIVS.
	if job.Jail.UseSeccomp {
		if err := seccomp.Load(); err != nil {
			fatal("seccomp load", err)
		}
	}

	// Step 9: exec. syscall.Exec (not os/exec) because this process must
	// become the target, not spawn a grandchild.
	path, err := exec.LookPath(job.Argv[0])
	if err != nil {
		fatal(fmt.Sprintf("can't find %q in PATH", job.Argv[0]), err)
	}
	if err := syscall.Exec(path, job.Argv, os.Environ()); err != nil {
		fatal(fmt.Sprintf("can't exec %s", job.Argv[0]), err)
	}
	// unreachable
}

func readJob() (Job, error) {
	f := os.NewFile(jobFD, "job")
	defer f.Close()

	var job Job
	if err := json.NewDecoder(f).Decode(&job); err != nil {
		return Job{}, err
	}
	if len(job.Argv) == 0 {
		return Job{}, fmt.Errorf("jailinit: empty argv")
	}
	return job, nil
}

// closeInheritedFDs sets FD_CLOEXEC on every open descriptor above stderr,
// so neither the job-description pipe nor anything else the supervisor had
// open leaks into the target program's exec. Go already marks files it
// opens itself CLOEXEC by default, and readJob has already closed jobFD by
// the time this runs, so in practice this is a defensive sweep rather than
// load-bearing.
func closeInheritedFDs() {
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		logx.SysWarn("can't open /proc/self/fd, can't check for inherited fds", err)
		return
	}
	for _, e := range entries {
		fd, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		if fd == unix.Stdin || fd == unix.Stdout || fd == unix.Stderr {
			continue
		}
		unix.CloseOnExec(fd)
	}
}

func redirect(stdFD int, path string, flags int, perm os.FileMode) {
	if path == "" {
		return
	}
	fd, err := unix.Open(path, flags, uint32(perm))
	if err != nil {
		fatal(fmt.Sprintf("can't open redirect target %q", path), err)
	}
	if fd == stdFD {
		// open(2) already landed on the target fd; closing it would undo
		// the redirect.
		return
	}
	if err := unix.Dup2(fd, stdFD); err != nil {
		fatal(fmt.Sprintf("can't redirect fd to %d", stdFD), err)
	}
	unix.Close(fd)
}

// dropCapabilities empties the process's capability sets (permitted,
// effective, inheritable, bounding, and ambient) so the target program
// starts with none.
func dropCapabilities() {
	caps, err := capability.NewPid2(0)
	if err != nil {
		fatal("capability.NewPid2", err)
	}
	if err := caps.Load(); err != nil {
		fatal("capability.Load", err)
	}
	caps.Clear(capability.CAPS | capability.BOUNDS | capability.AMBS)
	if err := caps.Apply(capability.CAPS | capability.BOUNDS | capability.AMBS); err != nil {
		fatal("capability.Apply", err)
	}
}

func fatal(msg string, err error) {
	logx.SysError(msg, err)
	os.Exit(1)
}
