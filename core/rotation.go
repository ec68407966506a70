package core

// DefaultIdleTicks is the reference idle threshold (3000ms)
const DefaultIdleTicks = 300

// RotationPolicy decides when an idle log file is closed and the next one
// opened.
type RotationPolicy struct {
	IdleTicks uint32
}

// Due reports whether the file written last at lastWrite should be rotated
// at now. A zero lastWrite means nothing was written yet and never rotates.
// The subtraction is modular, so a counter wrap does not matter.
func (p RotationPolicy) Due(now, lastWrite uint32) bool {
	return lastWrite != 0 && now-lastWrite > p.IdleTicks
}
