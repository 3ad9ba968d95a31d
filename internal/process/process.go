// Package process holds the Process descriptor: the record that owns a
// supervised run's limits, jail, stats, argv, and pid.
package process

import (
	"github.com/xelez/srun2/internal/jail"
	"github.com/xelez/srun2/internal/limits"
	"github.com/xelez/srun2/internal/stats"
)

// Process owns everything describing one supervised run. It is created by
// the launcher (cmd/srun2), mutated by the spawner (writes PID) and the
// hypervisor (writes Stats), and discarded after the report is emitted.
type Process struct {
	Limits limits.Limits
	Jail   jail.Jail
	Stats  stats.Stats

	Argv []string
	PID  int
}
