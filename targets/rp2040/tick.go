//go:build rp2040

package main

import (
	"device/rp"
	"runtime/interrupt"
)

// The RP2040 timer counts microseconds. The runtime owns alarm 0; the tick
// uses alarm 1.
const (
	tickAlarm  = 1
	tickMicros = 10000
)

// initTickTimer starts the 10ms tick interrupt
func initTickTimer() {
	intr := interrupt.New(rp.IRQ_TIMER_IRQ_1, tickHandler)
	rp.TIMER.INTE.SetBits(1 << tickAlarm)
	rp.TIMER.ALARM1.Set(rp.TIMER.TIMERAWL.Get() + tickMicros)
	intr.Enable()
}

func tickHandler(interrupt.Interrupt) {
	// write 1 to clear
	rp.TIMER.INTR.Set(1 << tickAlarm)
	rp.TIMER.ALARM1.Set(rp.TIMER.TIMERAWL.Get() + tickMicros)
	ticks.Tick()
}
