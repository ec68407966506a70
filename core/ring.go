package core

import "sync/atomic"

// RingSize is the capacity of the receive ring. Must be a power of two.
const RingSize = 256

const ringMask = RingSize - 1

// RingBuffer is the single-producer, single-consumer byte queue between the
// receive ISR and the capture loop. One slot is always left empty, so at most
// RingSize-1 bytes are buffered.
//
// tail is written only by Push (ISR context), head only by Pop (main loop).
type RingBuffer struct {
	buf     [RingSize]byte
	head    atomic.Uint32
	tail    atomic.Uint32
	dropped atomic.Uint32
}

// Push stores a byte. Must only be called from the receive interrupt.
// When the ring is full the byte is discarded.
func (r *RingBuffer) Push(b byte) {
	tail := r.tail.Load()
	next := (tail + 1) & ringMask
	if next == r.head.Load() {
		r.dropped.Add(1)
		return
	}
	r.buf[tail] = b
	r.tail.Store(next)
}

// Pop removes the oldest byte. Must only be called from the main loop.
func (r *RingBuffer) Pop() (byte, bool) {
	state := disableInterrupts()
	head := r.head.Load()
	if head == r.tail.Load() {
		restoreInterrupts(state)
		return 0, false
	}
	b := r.buf[head]
	r.head.Store((head + 1) & ringMask)
	restoreInterrupts(state)
	return b, true
}

// Len returns the number of buffered bytes
func (r *RingBuffer) Len() int {
	return int((r.tail.Load() - r.head.Load()) & ringMask)
}

// IsEmpty returns true if the ring holds no bytes
func (r *RingBuffer) IsEmpty() bool {
	return r.head.Load() == r.tail.Load()
}

// Dropped returns how many bytes Push discarded because the ring was full.
// The count is informational only and never reported over the status link.
func (r *RingBuffer) Dropped() uint32 {
	return r.dropped.Load()
}

// Reset clears the ring. Only safe while the receive ISR is not running.
func (r *RingBuffer) Reset() {
	r.head.Store(0)
	r.tail.Store(0)
	r.dropped.Store(0)
}
