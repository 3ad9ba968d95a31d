package envmount

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_SkipsMissingSkeletonDirs(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("bind mounts are Linux-only")
	}
	if os.Getuid() != 0 {
		t.Skip("mount(2) requires root")
	}

	dir := t.TempDir()
	require.NoError(t, DropPrivileges())
	require.NoError(t, Create(dir))
	require.NoError(t, Remove(dir))
}

func TestDropPrivileges_RealAndEffectiveMatchAfterDrop(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("uid semantics are Linux-only")
	}

	require.NoError(t, DropPrivileges())
	assert.Equal(t, os.Getuid(), os.Geteuid())
}

func TestSkeletonDirs_IsTheFixedFourEntryList(t *testing.T) {
	assert.Equal(t, []string{"/usr", "/lib", "/lib64", "/bin"}, skeletonDirs)
}
