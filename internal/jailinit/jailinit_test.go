package jailinit

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestRedirect_NoopOnEmptyPath(t *testing.T) {
	// Must not touch fd 0/1/2 (or anything else) when no path is configured.
	redirect(unix.Stdin, "", os.O_RDONLY, 0)
}

func TestRedirect_DupsOntoReservedFD(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("dup2 semantics are Linux-only")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "redirected.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer w.Close()
	target := int(r.Fd())
	r.Close() // free the fd number for redirect to reuse via dup2

	redirect(target, path, os.O_RDONLY, 0)

	got := os.NewFile(uintptr(target), "redirected")
	defer got.Close()
	buf := make([]byte, 5)
	n, err := got.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestCloseInheritedFDs_DoesNotTouchStdStreams(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("/proc/self/fd is Linux-only")
	}
	// Must not panic or mark 0/1/2 close-on-exec; a crash here would take
	// the test binary down with it.
	closeInheritedFDs()
	for _, fd := range []int{unix.Stdin, unix.Stdout, unix.Stderr} {
		flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
		require.NoError(t, err)
		assert.Zero(t, flags&unix.FD_CLOEXEC, "fd %d must not be close-on-exec", fd)
	}
}
