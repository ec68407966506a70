//go:build rp2040

package pio

import (
	"device/rp"
	"errors"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"sdlogger/core"
)

// Receiver without stop-bit check, sampling in the middle of each bit at 8
// PIO cycles per bit. bits is the sampled bit count, parity included.
func buildUARTRxProgram(bits uint8) []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.WaitPin(false, 0).Encode(),                      // 0: wait 0 pin, 0 (start bit)
		asm.Set(rp2pio.SetDestX, bits-1).Delay(10).Encode(), // 1: set x, bits-1 [10]
		// bitloop:
		asm.In(rp2pio.InSrcPins, 1).Encode(),              // 2: in pins, 1
		asm.Jmp(2, rp2pio.JmpXNZeroDec).Delay(6).Encode(), // 3: jmp x--, 2 [6]
		// .wrap
	}
}

const (
	uartRxOrigin     = 0 // jmp target above is absolute
	uartRxCyclesPerB = 8
)

var errBadFraming = errors.New("unsupported serial framing")

// UARTRx receives serial data on a PIO state machine and pushes every byte
// into a ring from the PIO interrupt.
type UARTRx struct {
	Ring *core.RingBuffer

	pio   *rp2pio.PIO
	sm    rp2pio.StateMachine
	smNum uint8
	pin   machine.Pin

	bits      uint8 // sampled bits per frame, parity included
	dataShift uint8
	dataMask  uint32
}

// NewUARTRx claims a state machine on PIO0 for receiving on pin
func NewUARTRx(pin machine.Pin, ring *core.RingBuffer) (*UARTRx, error) {
	sm, smNum, err := allocate(0)
	if err != nil {
		return nil, err
	}
	return &UARTRx{
		Ring:  ring,
		pio:   rp2pio.PIO0,
		sm:    sm,
		smNum: smNum,
		pin:   pin,
	}, nil
}

// Configure loads the receiver for the given framing and starts it. Stop
// bits are not checked, so any stop bit count is accepted.
func (u *UARTRx) Configure(cfg core.DeviceConfig) error {
	if cfg.Baud == 0 || cfg.DataBits < 5 || cfg.DataBits > 8 {
		return errBadFraming
	}
	u.bits = cfg.DataBits
	if cfg.Parity != 'N' {
		u.bits++ // parity is sampled and dropped
	}
	u.dataShift = 32 - u.bits
	u.dataMask = 1<<cfg.DataBits - 1

	program := buildUARTRxProgram(u.bits)

	u.sm.SetEnabled(false)
	offset, err := u.pio.AddProgram(program, uartRxOrigin)
	if err != nil {
		return err
	}

	u.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	smCfg := rp2pio.DefaultStateMachineConfig()
	smCfg.SetInPins(u.pin, 1)
	// Shift right, autopush once a whole frame has been sampled
	smCfg.SetInShift(true, true, uint16(u.bits))
	smCfg.SetWrap(offset, offset+uint8(len(program))-1)

	// 8 PIO cycles per bit, 8.8 fixed point divider
	div := uint64(machine.CPUFrequency()) * 256 / (uint64(cfg.Baud) * uartRxCyclesPerB)
	smCfg.SetClkDivIntFrac(uint16(div>>8), uint8(div&0xff))

	u.sm.Init(offset, smCfg)
	u.sm.SetPindirsConsecutive(u.pin, 1, false)
	u.sm.ClearFIFOs()

	// RX FIFO not empty raises PIO0 IRQ 0
	rp.PIO0.IRQ0_INTE.SetBits(1 << u.smNum)
	u.sm.SetEnabled(true)
	return nil
}

// HandleInterrupt drains the RX FIFO into the ring. Called from the PIO0
// IRQ 0 handler.
func (u *UARTRx) HandleInterrupt() {
	for !u.sm.IsRxFIFOEmpty() {
		word := u.sm.RxGet()
		u.Ring.Push(byte((word >> u.dataShift) & u.dataMask))
	}
}
