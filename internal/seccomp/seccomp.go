// Package seccomp installs the kill-on-violation syscall filter the
// trampoline loads just before exec. It wraps
// github.com/seccomp/libseccomp-golang instead of hand-rolling a BPF
// program.
package seccomp

import (
	"fmt"

	libseccomp "github.com/seccomp/libseccomp-golang"

	"github.com/xelez/srun2/internal/logx"
)

// Load initializes a filter with default action KILL, adds an ALLOW rule for
// every syscall in AllowList, loads it into the kernel, and releases the
// filter context.
//
// A partially loaded filter is not an acceptable state: any error here must
// be treated as fatal by the caller, never ignored or retried.
func Load() error {
	filter, err := libseccomp.NewFilter(libseccomp.ActKill)
	if err != nil {
		return fmt.Errorf("seccomp: init filter: %w", err)
	}
	defer filter.Release()

	for _, name := range AllowList {
		call, err := libseccomp.GetSyscallFromName(name)
		if err != nil {
			logx.SysError(fmt.Sprintf("seccomp: unknown syscall %q for this arch", name), err)
			return fmt.Errorf("seccomp: resolve syscall %q: %w", name, err)
		}
		if err := filter.AddRule(call, libseccomp.ActAllow); err != nil {
			return fmt.Errorf("seccomp: add rule for %q: %w", name, err)
		}
	}

	if err := filter.Load(); err != nil {
		return fmt.Errorf("seccomp: load filter: %w", err)
	}
	return nil
}
