package logging

import "sync/atomic"

var masksPrivateData atomic.Bool

func init() {
	masksPrivateData.Store(true)
}

// SetMasksPrivateData toggles redaction of addresses and hostnames in log
// output produced through Masked.
func SetMasksPrivateData(enabled bool) {
	masksPrivateData.Store(enabled)
}

// MasksPrivateData reports whether redaction is active.
func MasksPrivateData() bool {
	return masksPrivateData.Load()
}

// Masked returns value unchanged when redaction is off, otherwise a fixed
// placeholder.
func Masked(value string) string {
	if !masksPrivateData.Load() || value == "" {
		return value
	}
	return "<masked>"
}
