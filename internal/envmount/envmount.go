// Package envmount builds and tears down the bind-mount skeleton a chroot
// jail needs to find a working dynamic linker and shell. It is the library
// backing cmd/envhelper, and uses a privilege-scoping pattern of its own:
// capture real/effective uid, drop effective to real, elevate only around
// the privileged syscalls.
package envmount

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// skeletonDirs are bind-mounted read-only into a new chroot, in order. A
// missing source directory is skipped rather than treated as an error —
// not every host has /lib64, for instance.
var skeletonDirs = []string{"/usr", "/lib", "/lib64", "/bin"}

// realUID and savedEUID are captured once by DropPrivileges, before the
// process's effective uid is lowered. The setuid-root binary needs both
// ends of that pair for the rest of its life: realUID to drop back to after
// every privileged call, savedEUID to regain privilege with.
var (
	realUID   int
	savedEUID int
)

// DropPrivileges captures the process's real and effective uid and lowers
// the effective uid to the real one. cmd/envhelper calls this once, as the
// very first thing main() does.
func DropPrivileges() error {
	realUID = unix.Getuid()
	savedEUID = unix.Geteuid()
	return unix.Seteuid(realUID)
}

// Create builds the bind-mount skeleton at path: the directory itself, then
// a read-only bind mount of each of skeletonDirs that exists on the host.
// Any failure aborts immediately; Create does not roll back partial work.
func Create(path string) error {
	if err := os.Mkdir(path, 0777); err != nil && !os.IsExist(err) {
		return fmt.Errorf("envmount: mkdir %s: %w", path, err)
	}

	for _, dir := range skeletonDirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		target := path + dir

		if err := os.Mkdir(target, 0777); err != nil && !os.IsExist(err) {
			return fmt.Errorf("envmount: mkdir %s: %w", target, err)
		}

		err := withPrivilege(func() error {
			return unix.Mount(dir, target, "", unix.MS_BIND|unix.MS_NOSUID, "")
		})
		if err != nil {
			return fmt.Errorf("envmount: bind mount %s: %w", target, err)
		}

		err = withPrivilege(func() error {
			return unix.Mount(dir, target, "", unix.MS_REMOUNT|unix.MS_BIND|unix.MS_NOSUID|unix.MS_RDONLY, "")
		})
		if err != nil {
			return fmt.Errorf("envmount: remount read-only %s: %w", target, err)
		}
	}
	return nil
}

// Remove force-unmounts every skeleton mount point under path and removes
// the now-empty directories. Any failure aborts immediately.
func Remove(path string) error {
	for _, dir := range skeletonDirs {
		target := path + dir

		err := withPrivilege(func() error {
			return unix.Unmount(target, unix.MNT_FORCE|unix.UMOUNT_NOFOLLOW)
		})
		if err != nil {
			return fmt.Errorf("envmount: unmount %s: %w", target, err)
		}

		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("envmount: rmdir %s: %w", target, err)
		}
	}
	return nil
}

// withPrivilege temporarily restores the saved (originally effective) uid
// for the duration of fn, then drops back to the real uid. cmd/envhelper
// drops to the real uid once at startup; this is the only place privilege is
// regained, and only around the two syscalls that need it.
func withPrivilege(fn func() error) error {
	if err := unix.Seteuid(savedEUID); err != nil {
		return fmt.Errorf("seteuid(saved): %w", err)
	}
	defer unix.Seteuid(realUID)

	return fn()
}
