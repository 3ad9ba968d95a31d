package procstat

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPUMillis_Self(t *testing.T) {
	pid := os.Getpid()
	first := CPUMillis(pid)
	require.GreaterOrEqual(t, first, int64(0))

	burnCPU(10 * time.Millisecond)

	second := CPUMillis(pid)
	assert.GreaterOrEqual(t, second, first)
}

func TestCPUMillis_MissingPidReturnsZero(t *testing.T) {
	assert.Equal(t, int64(0), CPUMillis(1<<30))
}

func TestPeakRSSKB_Self(t *testing.T) {
	pid := os.Getpid()
	v := PeakRSSKB(pid)
	assert.Greater(t, v, int64(0), "a running Go test process should report a nonzero VmHWM")
}

func TestPeakRSSKB_MissingPidReturnsZero(t *testing.T) {
	assert.Equal(t, int64(0), PeakRSSKB(1<<30))
}

func TestParseStatTimes_CommWithSpacesAndParens(t *testing.T) {
	// Exercise the case a naive fixed-token-skip parser mishandles:
	// comm = "weird (name) here".
	line := []byte("1234 (weird (name) here) S 1 1234 1234 0 -1 4194304 100 0 0 0 55 66 0 0 20 0 1 0 123456 0 0 18446744073709551615 0 0 0 0 0 0 0 0 0 0 0 0 17 0 0 0 0 0 0 0 0 0 0 0 0 0 0")
	utime, stime, ok := parseStatTimes(line)
	require.True(t, ok)
	assert.EqualValues(t, 55, utime)
	assert.EqualValues(t, 66, stime)
}

func TestParseVmHWM_Present(t *testing.T) {
	buf := []byte("Name:\tfoo\nVmHWM:\t   4096 kB\nVmRSS:\t1024 kB\n")
	assert.EqualValues(t, 4096, parseVmHWM(buf))
}

func TestParseVmHWM_Absent(t *testing.T) {
	buf := []byte("Name:\tfoo\nVmRSS:\t1024 kB\n")
	assert.EqualValues(t, 0, parseVmHWM(buf))
}

func burnCPU(d time.Duration) {
	deadline := time.Now().Add(d)
	x := 0
	for time.Now().Before(deadline) {
		x++
	}
	_ = x
}
