// Package logx is the supervisor's logging surface: a thin logrus wrapper
// exposing six log functions (Trace/Debug/Warn/Error/SysWarn/SysError)
// tuned to the verbosity levels a sandboxed-process supervisor needs.
package logx

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
	})
	if os.Getenv("SRUN2_DEBUG") != "" {
		l.SetLevel(logrus.TraceLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

// Trace logs fine-grained per-iteration detail (hypervisor polling loop).
func Trace(format string, args ...interface{}) {
	log.Tracef(format, args...)
}

// Debug logs one-shot setup/decision detail.
func Debug(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Warn logs a non-fatal condition the caller chose to continue past.
func Warn(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Error logs a fatal or near-fatal condition.
func Error(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// SysWarn logs a non-fatal syscall failure with its error attached as a field,
// the Go analogue of SYSWARN("...: %s", strerror(errno)).
func SysWarn(msg string, err error) {
	log.WithError(err).Warn(msg)
}

// SysError logs a fatal syscall failure with its error attached as a field,
// the Go analogue of SYSERROR("...: %s", strerror(errno)).
func SysError(msg string, err error) {
	log.WithError(err).Error(msg)
}
