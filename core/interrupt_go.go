//go:build !tinygo

package core

// interruptState is a placeholder for interrupt state on regular Go
type interruptState uintptr

// disableInterrupts is a no-op on regular Go. The ring indices are atomics,
// so a producer goroutine standing in for the receive ISR stays race-free.
func disableInterrupts() interruptState {
	return 0
}

// restoreInterrupts is a no-op on regular Go
func restoreInterrupts(state interruptState) {
	// No-op
}
