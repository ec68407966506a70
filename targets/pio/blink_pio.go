//go:build rp2040

package pio

import (
	"machine"
	"time"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// Command word format:
//
//	Bits 0-15: hold time in PIO cycles
//	Bit 16:    pin level
//
// The state machine runs at 2kHz, so one cycle is 500us and the longest
// hold is about 32s.
func buildBlinkProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestY, 16).Encode(),   // 1: out y, 16 (hold cycles)
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 2: out pins, 1 (level)
		// hold:
		asm.Jmp(3, rp2pio.JmpYNZeroDec).Encode(), // 3: jmp y--, 3
		// .wrap
	}
}

const (
	blinkPIOOrigin = 0
	blinkClkDiv    = 62500 // 125MHz / 62500 = 2kHz
	blinkCycle     = 500 * time.Microsecond
	blinkOverhead  = 3 // pull, out, out
)

// Blinker drives the status LED from a PIO state machine, so a halted
// main loop only has to keep the TX FIFO fed.
type Blinker struct {
	sm  rp2pio.StateMachine
	pin machine.Pin
}

// NewBlinker claims a state machine on PIO1 and starts it with pin low
func NewBlinker(pin machine.Pin) (*Blinker, error) {
	block := pioBlock(1)
	sm, _, err := allocate(1)
	if err != nil {
		return nil, err
	}

	program := buildBlinkProgram()
	offset, err := block.AddProgram(program, blinkPIOOrigin)
	if err != nil {
		return nil, err
	}

	pin.Configure(machine.PinConfig{Mode: block.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(pin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset, offset+uint8(len(program))-1)
	cfg.SetClkDivIntFrac(blinkClkDiv, 0)

	sm.Init(offset, cfg)
	sm.SetPindirsConsecutive(pin, 1, true)
	sm.SetPinsConsecutive(pin, 1, false)
	sm.SetEnabled(true)

	return &Blinker{sm: sm, pin: pin}, nil
}

// Pulse queues level on for d. It blocks only while the FIFO is full.
func (b *Blinker) Pulse(on bool, d time.Duration) {
	cycles := uint32(d / blinkCycle)
	if cycles > blinkOverhead {
		cycles -= blinkOverhead
	} else {
		cycles = 0
	}
	if cycles > 0xffff {
		cycles = 0xffff
	}

	cmd := cycles
	if on {
		cmd |= 1 << 16
	}
	for b.sm.IsTxFIFOFull() {
	}
	b.sm.TxPut(cmd)
}
