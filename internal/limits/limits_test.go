package limits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Valid(t *testing.T) {
	l, err := New(1000, 2000, 1024)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), l.CPUMillis)
	assert.Equal(t, int64(2000), l.WallMillis)
	assert.Equal(t, int64(1024), l.MemKB)
}

func TestNew_BoundaryMinimumsAccepted(t *testing.T) {
	_, err := New(MinCPUMillis, MinWallMillis, MinMemKB)
	assert.NoError(t, err)
}

func TestNew_RejectsTooSmallCPU(t *testing.T) {
	_, err := New(9, 2000, 1024)
	require.Error(t, err)
}

func TestNew_RejectsTooSmallWall(t *testing.T) {
	_, err := New(1000, 9, 1024)
	require.Error(t, err)
}

func TestNew_RejectsTooSmallMem(t *testing.T) {
	_, err := New(1000, 2000, 0)
	require.Error(t, err)
}
