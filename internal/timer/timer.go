// Package timer implements the supervisor's polling-quantum interval timer:
// arm/disarm a one-shot real-time timer whose only job is to interrupt a
// blocking wait4 so the hypervisor can re-sample /proc.
package timer

import (
	"os"
	"os/signal"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// PollingQuantum is the maximum delay between a limit breach and the kill,
// and the floor of time/memory reporting precision.
const PollingQuantum = 25 * 1_000 // microseconds

// Session owns the process-wide SIGALRM disposition for the lifetime of one
// supervised run. Go's signal.Notify does double duty here: the handler is
// simply "deliver to this channel and drain it", and registering it also
// switches the runtime's disposition for SIGALRM from SA_RESTART to
// "deliver and let the interrupted syscall return EINTR" — which is what
// lets a pending wait4 be woken up on schedule.
//
// Acquire with NewSession, release with Close on every exit path.
type Session struct {
	sigCh chan os.Signal
	done  chan struct{}
}

// NewSession installs the SIGALRM disposition and starts draining the
// channel so delivered signals never block or accumulate.
func NewSession() *Session {
	s := &Session{
		sigCh: make(chan os.Signal, 1),
		done:  make(chan struct{}),
	}
	signal.Notify(s.sigCh, syscall.SIGALRM)
	go func() {
		for {
			select {
			case <-s.sigCh:
				// no-op: delivery alone is enough to interrupt wait4.
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Close restores the prior SIGALRM disposition and disarms any pending
// timer. Call it exactly once: a second call panics, since it closes the
// session's done channel again.
func (s *Session) Close() {
	s.Disarm()
	signal.Stop(s.sigCh)
	close(s.done)
}

// Arm arms a one-shot real-time interval timer that fires after usec
// microseconds, delivering SIGALRM exactly once (no repeat interval).
func (s *Session) Arm(usec int64) error {
	return setTimeout(usec)
}

// Disarm cancels any pending timer. It is called twice in a row to defeat a
// race where the first disarm call is itself interrupted by the timer
// firing concurrently.
func (s *Session) Disarm() {
	_ = setTimeout(0)
	_ = setTimeout(0)
}

// setTimeout issues the raw setitimer(2) syscall. golang.org/x/sys/unix does
// not export a Setitimer wrapper for every platform, so this calls the
// syscall directly with unix.Itimerval — the same struct unix.Getitimer/
// other itimer-adjacent helpers use — via unsafe.Pointer, the standard
// pattern for syscalls x/sys/unix defines the types for but not a wrapper.
func setTimeout(usec int64) error {
	it := unix.Itimerval{
		Interval: unix.Timeval{Sec: 0, Usec: 0},
		Value:    unix.Timeval{Sec: 0, Usec: usec},
	}
	_, _, errno := unix.Syscall(unix.SYS_SETITIMER, uintptr(unix.ITIMER_REAL), uintptr(unsafe.Pointer(&it)), 0)
	if errno != 0 {
		return errno
	}
	return nil
}
