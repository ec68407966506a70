package core

import (
	"sync/atomic"
	"time"
)

// Tick timing
const (
	TickPeriod     = 10 * time.Millisecond
	TicksPerSecond = uint32(time.Second / TickPeriod)
)

// maxHousekeeping bounds the callbacks run from the tick ISR
const maxHousekeeping = 4

// TickSource counts 10ms intervals since boot. Tick is driven by a periodic
// timer interrupt; everything else only reads the counter.
type TickSource struct {
	count        atomic.Uint32
	housekeeping [maxHousekeeping]func()
	nHousekeep   int
}

// Tick advances the counter and runs housekeeping. Called from the timer ISR;
// housekeeping callbacks must be short and must not block or allocate.
func (t *TickSource) Tick() {
	t.count.Add(1)
	for i := 0; i < t.nHousekeep; i++ {
		t.housekeeping[i]()
	}
}

// Now returns the current tick count
func (t *TickSource) Now() uint32 {
	return t.count.Load()
}

// AddHousekeeping registers a callback run on every tick.
// Must be called before the timer interrupt is enabled.
func (t *TickSource) AddHousekeeping(fn func()) bool {
	if t.nHousekeep == maxHousekeeping {
		return false
	}
	t.housekeeping[t.nHousekeep] = fn
	t.nHousekeep++
	return true
}

// TicksFromSeconds converts whole seconds to ticks
func TicksFromSeconds(sec uint32) uint32 {
	return sec * TicksPerSecond
}
