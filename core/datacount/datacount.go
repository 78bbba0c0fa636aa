// Package datacount holds the byte counters reported by the engine.
package datacount

import "fmt"

// DataCount is the number of bytes received and sent during one connected
// session.
type DataCount struct {
	Received uint64 `json:"received" yaml:"received"`
	Sent     uint64 `json:"sent" yaml:"sent"`
}

// Add returns the sum of two counters.
func (d DataCount) Add(other DataCount) DataCount {
	return DataCount{Received: d.Received + other.Received, Sent: d.Sent + other.Sent}
}

// IsMonotonicSuccessorOf reports whether d could follow prev within the
// same session.
func (d DataCount) IsMonotonicSuccessorOf(prev DataCount) bool {
	return d.Received >= prev.Received && d.Sent >= prev.Sent
}

func (d DataCount) String() string {
	return fmt.Sprintf("{in: %s, out: %s}", FormatBytes(d.Received), FormatBytes(d.Sent))
}

var units = []string{"B", "kB", "MB", "GB", "TB"}

// FormatBytes renders n with a decimal unit, e.g. 1.50 kB.
func FormatBytes(n uint64) string {
	if n < 1000 {
		return fmt.Sprintf("%d B", n)
	}
	value := float64(n)
	unit := 0
	for value >= 1000 && unit < len(units)-1 {
		value /= 1000
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, units[unit])
}
