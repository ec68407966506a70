//go:build rp2040

package main

import (
	"machine"
	"time"

	"sdlogger/core"
	"sdlogger/targets/pio"
)

// Activity LED, lit while a block is written to the card
const activityPin = core.GPIOPin(15)

var (
	ring  core.RingBuffer
	ticks core.TickSource
)

func main() {
	core.SetGPIODriver(NewRPGPIODriver())

	signal := core.NewErrorSignal(newIndicator())

	// Without a receiver no config can be applied
	if err := initReceiver(); err != nil {
		signal.Halt(core.FaultConfigParse)
	}

	opts := core.Options{
		Ring:    &ring,
		Ticks:   &ticks,
		Storage: NewSDStorage(),
		Status:  statusWriter{},
		Signal:  signal,
		Apply:   applyConfig,
	}

	if activity, err := core.NewPinLED(activityPin, false); err == nil {
		opts.Activity = activity
	}

	if hasCardDetect {
		if cd, err := core.NewCardDetect(sdCD, true); err == nil {
			ticks.AddHousekeeping(cd.Poll)
			opts.CardPresent = cd.Present
		}
	}

	initTickTimer()

	core.NewLogger(opts).Run()
}

// newIndicator prefers the PIO blinker and falls back to bit-banging the LED
func newIndicator() core.Indicator {
	if b, err := pio.NewBlinker(machine.LED); err == nil {
		return b
	}
	led, err := core.NewPinLED(core.GPIOPin(machine.LED), false)
	if err != nil {
		// nothing left to signal with
		for {
			time.Sleep(time.Second)
		}
	}
	return core.PinIndicator{LED: led, Sleep: time.Sleep}
}
