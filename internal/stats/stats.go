// Package stats holds the run statistics record and the verdict classifier:
// the rules that turn exit status, CPU time, wall time, and peak memory,
// checked against a Limits envelope, into one of the six result codes.
package stats

import (
	"syscall"
	"time"

	"github.com/xelez/srun2/internal/limits"
)

// Result is the final two-letter verdict code.
type Result int

const (
	OK Result = iota // clean exit, status 0
	RE                // runtime error: non-zero exit, killed by a non-SIGSYS signal, or spawn failure
	TL                // time limit (CPU or wall) exceeded
	ML                // memory limit exceeded
	SV                // security violation: killed by SIGSYS (seccomp)
	SC                // system crash: supervisor-internal failure
)

// resultNames is indexed by Result.
var resultNames = [...]string{"OK", "RE", "TL", "ML", "SV", "SC"}

func (r Result) String() string {
	if r < 0 || int(r) >= len(resultNames) {
		return "??"
	}
	return resultNames[r]
}

// Stats is a monotonically-updated run record.
//
// Invariants:
//   - PeakMemKB is monotonically non-decreasing.
//   - Once Result leaves OK it is sticky, except CheckExitStatus may promote
//     an OK result to RE/SV at reap time.
//   - WallMillis = now - StartWallMillis at the moment of sampling.
type Stats struct {
	CPUMillis       int64
	WallMillis      int64
	PeakMemKB       int64
	StartWallMillis int64 // epoch ms reference, captured immediately before spawn

	Status int // raw wait status word
	Result Result
}

// NowMillis returns the current wall-clock time in milliseconds since the
// epoch.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// CheckExitStatus classifies the child's terminal wait status. If Result has
// already left OK, the existing result is left untouched; otherwise it may
// be promoted to RE or SV, never reverted to OK by a later call — a once
// non-OK result always wins.
func CheckExitStatus(s *Stats, status syscall.WaitStatus) {
	s.Status = int(status)
	if s.Result != OK {
		return
	}

	switch {
	case status.Signaled() && status.Signal() == syscall.SIGSYS:
		s.Result = SV
	case status.Signaled():
		s.Result = RE
	case status.Exited() && status.ExitStatus() != 0:
		s.Result = RE
	default:
		s.Result = OK
	}
}

// CheckCPU stores the observed CPU time and, if still OK and the budget is
// exceeded, promotes the result to TL.
func CheckCPU(s *Stats, l limits.Limits, cpuMillis int64) {
	s.CPUMillis = cpuMillis
	if s.Result == OK && cpuMillis > l.CPUMillis {
		s.Result = TL
	}
}

// CheckWall samples wall-clock time since StartWallMillis, stores it, and
// promotes the result to TL if the wall budget is exceeded.
func CheckWall(s *Stats, l limits.Limits) {
	s.WallMillis = NowMillis() - s.StartWallMillis
	if s.Result == OK && s.WallMillis > l.WallMillis {
		s.Result = TL
	}
}

// CheckMem folds memKB into the running peak (monotonically non-decreasing)
// and promotes the result to ML if the memory budget is exceeded.
func CheckMem(s *Stats, l limits.Limits, memKB int64) {
	if memKB > s.PeakMemKB {
		s.PeakMemKB = memKB
	}
	if s.Result == OK && s.PeakMemKB > l.MemKB {
		s.Result = ML
	}
}
