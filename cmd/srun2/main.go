// Command srun2 is the sandbox launcher: it parses limits and a jail
// description off the command line, spawns the target program under them,
// supervises it to completion, and prints a verdict report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xelez/srun2/internal/hypervisor"
	"github.com/xelez/srun2/internal/jail"
	"github.com/xelez/srun2/internal/jailinit"
	"github.com/xelez/srun2/internal/limits"
	"github.com/xelez/srun2/internal/logx"
	"github.com/xelez/srun2/internal/process"
	"github.com/xelez/srun2/internal/spawn"
)

func main() {
	// The trampoline re-exec checks this before cobra ever parses argv — a
	// re-exec'd child is never a normal CLI invocation and must not go
	// through flag parsing, help text, etc.
	if len(os.Args) > 1 && os.Args[1] == spawn.TrampolineArg {
		jailinit.RunInit()
		return
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cliOpts struct {
	chdirPath  string
	chrootPath string
	memKB      int64
	cpuMillis  int64
	wallMillis int64
	seccomp    bool
	usens      bool
	human      bool

	redirectStdin  string
	redirectStdout string
	redirectStderr string
}

func newRootCmd() *cobra.Command {
	var o cliOpts

	cmd := &cobra.Command{
		Use:                   "srun2 [options] [--] command [args...]",
		Short:                 "run a command under CPU/wall/memory limits and an optional jail",
		SilenceUsage:          true,
		SilenceErrors:         true,
		Args:                  cobra.MinimumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(o, args)
		},
	}

	flags := cmd.Flags()
	// Registered without a shorthand, before --human claims "h": cobra's
	// InitDefaultHelpFlag only adds its own "help"/"h" flag when no flag
	// named "help" exists yet, and pflag panics on a second flag claiming a
	// shorthand that's already taken.
	flags.BoolP("help", "", false, "help for srun2")
	flags.StringVarP(&o.chdirPath, "chdir", "d", "", "chdir target, applied after chroot")
	flags.StringVarP(&o.chrootPath, "chroot", "c", "", "chroot target")
	flags.Int64VarP(&o.memKB, "mem", "m", 0, "memory budget in kB")
	flags.Int64VarP(&o.cpuMillis, "time", "t", 0, "CPU time budget in ms")
	flags.Int64VarP(&o.wallMillis, "real_time", "r", 0, "wall-clock budget in ms")
	flags.BoolVarP(&o.seccomp, "seccomp", "s", false, "load the seccomp allow-list filter")
	flags.BoolVarP(&o.usens, "usens", "n", false, "isolate the child with new namespaces")
	flags.BoolVarP(&o.human, "human", "h", false, "print a human-readable report instead of SRUN_REPORT")
	flags.StringVar(&o.redirectStdin, "redirect-stdin", "", "path to redirect the child's stdin from, post-chroot")
	flags.StringVar(&o.redirectStdout, "redirect-stdout", "", "path to redirect the child's stdout to, post-chroot")
	flags.StringVar(&o.redirectStderr, "redirect-stderr", "", "path to redirect the child's stderr to, post-chroot")

	return cmd
}

func run(o cliOpts, argv []string) error {
	l, err := limits.New(o.cpuMillis, o.wallMillis, o.memKB)
	if err != nil {
		return fmt.Errorf("invalid limits: %w", err)
	}

	proc := &process.Process{
		Limits: l,
		Jail: jail.Jail{
			ChrootPath:     o.chrootPath,
			ChdirPath:      o.chdirPath,
			UseNamespaces:  o.usens,
			UseSeccomp:     o.seccomp,
			RedirectStdin:  o.redirectStdin,
			RedirectStdout: o.redirectStdout,
			RedirectStderr: o.redirectStderr,
		},
		Argv: argv,
	}

	realUID := os.Getuid()
	realGID := os.Getgid()

	if err := spawn.Spawn(proc, realUID, realGID); err != nil {
		logx.SysError("spawn failed", err)
		os.Exit(1)
	}

	if err := hypervisor.Supervise(proc); err != nil {
		logx.SysError("hypervisor failed", err)
	}

	printReport(proc, o.human)
	return nil
}
