package stats

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xelez/srun2/internal/limits"
)

func testLimits(t *testing.T) limits.Limits {
	t.Helper()
	l, err := limits.New(1000, 2000, 1024)
	assert.NoError(t, err)
	return l
}

func TestCheckExitStatus_CleanExitIsOK(t *testing.T) {
	s := &Stats{}
	CheckExitStatus(s, mkExited(0))
	assert.Equal(t, OK, s.Result)
}

func TestCheckExitStatus_NonZeroExitIsRE(t *testing.T) {
	s := &Stats{}
	CheckExitStatus(s, mkExited(7))
	assert.Equal(t, RE, s.Result)
}

func TestCheckExitStatus_SIGSYSIsSV(t *testing.T) {
	s := &Stats{}
	CheckExitStatus(s, mkSignaled(syscall.SIGSYS))
	assert.Equal(t, SV, s.Result)
}

func TestCheckExitStatus_OtherSignalIsRE(t *testing.T) {
	s := &Stats{}
	CheckExitStatus(s, mkSignaled(syscall.SIGSEGV))
	assert.Equal(t, RE, s.Result)
}

func TestCheckExitStatus_StickyOnceNonOK(t *testing.T) {
	s := &Stats{Result: TL}
	CheckExitStatus(s, mkExited(0))
	assert.Equal(t, TL, s.Result, "check_exit_status must not revert a non-OK result")
}

func TestCheckCPU_Boundary(t *testing.T) {
	l := testLimits(t)

	s := &Stats{}
	CheckCPU(s, l, l.CPUMillis)
	assert.Equal(t, OK, s.Result, "cpu == limit must stay OK (strict > test)")

	s2 := &Stats{}
	CheckCPU(s2, l, l.CPUMillis+1)
	assert.Equal(t, TL, s2.Result)
}

func TestCheckMem_Boundary(t *testing.T) {
	l := testLimits(t)

	s := &Stats{}
	CheckMem(s, l, l.MemKB)
	assert.Equal(t, OK, s.Result)

	s2 := &Stats{}
	CheckMem(s2, l, l.MemKB+1)
	assert.Equal(t, ML, s2.Result)
}

func TestCheckMem_PeakIsMonotonicNonDecreasing(t *testing.T) {
	l := testLimits(t)
	s := &Stats{}
	CheckMem(s, l, 100)
	assert.EqualValues(t, 100, s.PeakMemKB)
	CheckMem(s, l, 50)
	assert.EqualValues(t, 100, s.PeakMemKB, "peak must never decrease")
	CheckMem(s, l, 200)
	assert.EqualValues(t, 200, s.PeakMemKB)
}

func TestCheckMem_RepeatedSameValueIdempotent(t *testing.T) {
	l := testLimits(t)
	s := &Stats{}
	CheckMem(s, l, 500)
	CheckMem(s, l, 500)
	CheckMem(s, l, 500)
	assert.EqualValues(t, 500, s.PeakMemKB)
}

func TestCheckWall_NonDecreasing(t *testing.T) {
	l := testLimits(t)
	s := &Stats{StartWallMillis: NowMillis()}
	CheckWall(s, l)
	first := s.WallMillis
	CheckWall(s, l)
	assert.GreaterOrEqual(t, s.WallMillis, first)
}

func TestCheckCPU_StickyTLNotRevertedByMem(t *testing.T) {
	l := testLimits(t)
	s := &Stats{}
	CheckCPU(s, l, l.CPUMillis+1)
	assert.Equal(t, TL, s.Result)
	CheckMem(s, l, 1) // well under limit
	assert.Equal(t, TL, s.Result, "a satisfied budget must not clear an existing violation")
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "OK", OK.String())
	assert.Equal(t, "SC", SC.String())
}

func mkExited(code int) syscall.WaitStatus {
	// syscall.WaitStatus is an opaque platform-specific encoding; build one
	// the same way the kernel would for a normally-exited process.
	return syscall.WaitStatus(code << 8)
}

func mkSignaled(sig syscall.Signal) syscall.WaitStatus {
	return syscall.WaitStatus(uint32(sig))
}
