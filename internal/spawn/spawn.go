// Package spawn is the parent side of the supervised child's launch: build a
// child descriptor, clone it into new namespaces, and hand it off to the
// hypervisor for supervision.
//
// Go forbids running arbitrary Go code between fork/clone and exec (the
// runtime and GC need a live, schedulable process on both sides), so instead
// of cloning a function pointer directly, this package re-execs the running
// binary into a hidden subcommand that performs the jail setup and then
// execs the target program.
package spawn

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/xelez/srun2/internal/jailinit"
	"github.com/xelez/srun2/internal/process"
	"github.com/xelez/srun2/internal/stats"
)

// TrampolineArg is the hidden first argument that tells a re-exec'd copy of
// this binary to run jailinit.RunInit instead of the normal CLI. cmd/srun2
// checks for it before cobra ever sees argv.
const TrampolineArg = "__srun2_jailinit__"

// Spawn launches proc.Argv under proc.Jail by re-executing the running
// binary as a trampoline. On success proc.PID and proc.Stats.StartWallMillis
// are populated and the caller owns reaping the child (internal/hypervisor).
func Spawn(proc *process.Process, realUID, realGID int) error {
	self, err := selfExecutable()
	if err != nil {
		return fmt.Errorf("spawn: locate own executable: %w", err)
	}

	job := jailinit.Job{
		Jail:    proc.Jail,
		Argv:    proc.Argv,
		RealUID: realUID,
		RealGID: realGID,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("spawn: marshal job: %w", err)
	}

	jobR, jobW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("spawn: create job pipe: %w", err)
	}
	defer jobR.Close()

	cmd := exec.Command(self, TrampolineArg)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{jobR}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Pdeathsig: syscall.SIGKILL,
	}
	if proc.Jail.UseNamespaces {
		cmd.SysProcAttr.Cloneflags = syscall.CLONE_NEWUTS |
			syscall.CLONE_NEWPID |
			syscall.CLONE_NEWIPC |
			syscall.CLONE_NEWNET
	}

	// Captured as close to the actual clone as this design allows: the
	// wall-clock budget starts ticking from here.
	proc.Stats.StartWallMillis = stats.NowMillis()

	if err := cmd.Start(); err != nil {
		jobW.Close()
		return fmt.Errorf("spawn: start trampoline: %w", err)
	}
	jobR.Close()

	if _, err := jobW.Write(payload); err != nil {
		jobW.Close()
		return fmt.Errorf("spawn: write job to trampoline: %w", err)
	}
	if err := jobW.Close(); err != nil {
		return fmt.Errorf("spawn: close job pipe: %w", err)
	}

	proc.PID = cmd.Process.Pid
	return nil
}

// selfExecutable resolves an absolute path to the running binary so the
// trampoline re-exec doesn't depend on PATH or cwd at spawn time.
func selfExecutable() (string, error) {
	if p, err := os.Executable(); err == nil {
		return p, nil
	}
	return exec.LookPath(os.Args[0])
}
