// Package jailinit is the child side of the supervised process's launch:
// everything that happens between the clone and the final exec, run inside
// a re-exec'd copy of the launcher binary since Go can't run arbitrary code
// directly inside a freshly cloned child.
package jailinit

import "github.com/xelez/srun2/internal/jail"

// Job is the serialized description handed from the parent (internal/spawn)
// to the re-exec'd trampoline over a pipe. It carries everything the
// trampoline needs to build the jail and become the target program.
type Job struct {
	Jail jail.Jail `json:"jail"`
	Argv []string  `json:"argv"`

	// RealUID/RealGID are the launcher's real uid/gid, captured before clone
	// so the trampoline can drop to them in step 7 regardless of what
	// privileges the clone/exec sequence happened to retain.
	RealUID int `json:"real_uid"`
	RealGID int `json:"real_gid"`
}
