//go:build rp2040

// Package pio holds the RP2040 PIO programs used by the logger: the serial
// receiver and the fault blinker.
package pio

import (
	"errors"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

var errNoStateMachine = errors.New("no free PIO state machine")

// PIO allocation tracking: 2 blocks with 4 state machines each
var pioAllocations = [2][4]bool{}

func pioBlock(pioNum uint8) *rp2pio.PIO {
	if pioNum == 0 {
		return rp2pio.PIO0
	}
	return rp2pio.PIO1
}

// allocate claims the first free state machine on the given PIO block
func allocate(pioNum uint8) (rp2pio.StateMachine, uint8, error) {
	block := pioBlock(pioNum)
	for smNum := uint8(0); smNum < 4; smNum++ {
		if pioAllocations[pioNum][smNum] {
			continue
		}
		sm := block.StateMachine(smNum)
		if !sm.TryClaim() {
			continue
		}
		pioAllocations[pioNum][smNum] = true
		return sm, smNum, nil
	}
	return rp2pio.StateMachine{}, 0, errNoStateMachine
}
