// Package limits holds the resource envelope: an immutable record of the
// three independent budgets the hypervisor enforces.
package limits

import "fmt"

// Minimum accepted values for each budget.
const (
	MinCPUMillis  = 10 // ms
	MinWallMillis = 10 // ms
	MinMemKB      = 1  // kB
)

// Limits is an immutable, validated envelope: user+system CPU time,
// wall-clock time, and peak memory. Construct with New; reuse read-only.
type Limits struct {
	CPUMillis  int64 // user+system CPU time budget, in milliseconds
	WallMillis int64 // wall-clock time budget, in milliseconds
	MemKB      int64 // peak RSS budget, in kilobytes
}

// New validates and returns a Limits record. All three fields must be
// strictly positive and at least their respective minimums.
func New(cpuMillis, wallMillis, memKB int64) (Limits, error) {
	l := Limits{CPUMillis: cpuMillis, WallMillis: wallMillis, MemKB: memKB}
	if err := l.Validate(); err != nil {
		return Limits{}, err
	}
	return l, nil
}

// Validate reports whether l's budgets are all strictly positive and at
// least their respective minimums.
func (l Limits) Validate() error {
	if l.CPUMillis < MinCPUMillis {
		return fmt.Errorf("limits: cpu limit too small, must be >= %d ms", MinCPUMillis)
	}
	if l.WallMillis < MinWallMillis {
		return fmt.Errorf("limits: wall-clock limit too small, must be >= %d ms", MinWallMillis)
	}
	if l.MemKB < MinMemKB {
		return fmt.Errorf("limits: memory limit too small, must be >= %d kB", MinMemKB)
	}
	return nil
}
