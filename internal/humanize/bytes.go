// Package humanize formats byte counts for the human-readable report.
package humanize

import "fmt"

// Bytes is a size in bytes with an automatic-unit String representation.
type Bytes uint64

// String renders b with the largest whole unit (B, KB, MB, GB, TB) that
// keeps the value >= 1.
func (b Bytes) String() string {
	const unit = 1024
	v := float64(b)
	switch {
	case b >= 1<<40:
		return fmt.Sprintf("%.2f TB", v/(1<<40))
	case b >= 1<<30:
		return fmt.Sprintf("%.2f GB", v/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MB", v/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.2f KB", v/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
