// Package hypervisor is the supervisor's main reap-and-poll loop: arm the
// polling timer, block in wait4, re-sample limits on every EINTR wake-up,
// kill on breach, and classify the final wait status once the child
// actually exits.
package hypervisor

import (
	"syscall"

	"github.com/xelez/srun2/internal/logx"
	"github.com/xelez/srun2/internal/procstat"
	"github.com/xelez/srun2/internal/process"
	"github.com/xelez/srun2/internal/stats"
	"github.com/xelez/srun2/internal/timer"
)

// Supervise blocks until proc.PID exits or is killed for exceeding a limit,
// filling in proc.Stats along the way. It returns an error only for
// supervisor-internal failures, after setting proc.Stats.Result to SC; limit
// violations and the child's own exit status are reported through
// proc.Stats.Result, not as a Go error.
func Supervise(proc *process.Process) error {
	sess := timer.NewSession()
	defer sess.Close()

	killed := false

	for {
		if err := sess.Arm(timer.PollingQuantum); err != nil {
			logx.SysWarn("arm polling timer", err)
		}

		var status syscall.WaitStatus
		var rusage syscall.Rusage
		wpid, err := syscall.Wait4(proc.PID, &status, 0, &rusage)
		sess.Disarm()

		if err == syscall.EINTR {
			pollAndMaybeKill(proc, &killed)
			continue
		}
		if err == syscall.ECHILD {
			// The child was already reaped by the time we called wait4 (e.g.
			// raced against another waiter); there's no status or rusage left
			// to classify, so leave Result at whatever polling last settled.
			return nil
		}
		if err != nil {
			logx.SysError("wait4 failed", err)
			proc.Stats.Result = stats.SC
			return err
		}
		if wpid != proc.PID {
			// Not expected for a direct, non-namespaced-PID-reuse child, but
			// keep polling rather than misclassify on a spurious wakeup.
			continue
		}

		finalize(proc, status, rusage)
		return nil
	}
}

// pollAndMaybeKill re-samples CPU/wall/memory from /proc and, the first time
// the result leaves OK, sends SIGKILL. It only ever sends the kill once:
// after that the child's own exit is what ends the loop.
func pollAndMaybeKill(proc *process.Process, killed *bool) {
	cpu := procstat.CPUMillis(proc.PID)
	mem := procstat.PeakRSSKB(proc.PID)

	stats.CheckCPU(&proc.Stats, proc.Limits, cpu)
	stats.CheckWall(&proc.Stats, proc.Limits)
	stats.CheckMem(&proc.Stats, proc.Limits, mem)

	if proc.Stats.Result != stats.OK && !*killed {
		*killed = true
		if err := syscall.Kill(proc.PID, syscall.SIGKILL); err != nil {
			logx.SysWarn("kill over-limit child", err)
		}
	}
}

// finalize folds the kernel's authoritative rusage into Stats and classifies
// the wait status. rusage is used here instead of another /proc read because
// by the time wait4 returns non-EINTR the child is already reaped and
// /proc/<pid> may no longer exist.
func finalize(proc *process.Process, status syscall.WaitStatus, rusage syscall.Rusage) {
	cpu := rusageCPUMillis(rusage)
	mem := int64(rusage.Maxrss)

	stats.CheckCPU(&proc.Stats, proc.Limits, cpu)
	stats.CheckWall(&proc.Stats, proc.Limits)
	stats.CheckMem(&proc.Stats, proc.Limits, mem)
	stats.CheckExitStatus(&proc.Stats, status)
}

func rusageCPUMillis(ru syscall.Rusage) int64 {
	user := ru.Utime.Sec*1000 + int64(ru.Utime.Usec)/1000
	sys := ru.Stime.Sec*1000 + int64(ru.Stime.Usec)/1000
	return user + sys
}
