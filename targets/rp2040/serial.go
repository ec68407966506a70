//go:build rp2040

package main

import (
	"device/rp"
	"machine"
	"runtime/interrupt"

	"sdlogger/core"
	"sdlogger/targets/pio"
)

// Logged input arrives on GPIO1 through a PIO receiver; status lines go out
// on UART0 TX (GPIO0) with the same framing.
var (
	statusUART = machine.UART0
	statusTX   = machine.UART0_TX_PIN
	captureRX  = machine.UART0_RX_PIN

	receiver *pio.UARTRx
)

// statusWriter is the blocking transmit primitive for status lines
type statusWriter struct{}

func (statusWriter) WriteByte(c byte) error {
	return statusUART.WriteByte(c)
}

// initReceiver claims the PIO state machine and hooks its interrupt. The
// receiver starts once applyConfig has the framing.
func initReceiver() error {
	rx, err := pio.NewUARTRx(captureRX, &ring)
	if err != nil {
		return err
	}
	receiver = rx
	intr := interrupt.New(rp.IRQ_PIO0_IRQ_0, receiveHandler)
	intr.Enable()
	return nil
}

func receiveHandler(interrupt.Interrupt) {
	receiver.HandleInterrupt()
}

// applyConfig sets baud rate and framing from config.txt on both directions
func applyConfig(cfg core.DeviceConfig) error {
	err := statusUART.Configure(machine.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       statusTX,
		RX:       captureRX,
	})
	if err != nil {
		return err
	}

	parity := machine.ParityNone
	switch cfg.Parity {
	case 'E':
		parity = machine.ParityEven
	case 'O':
		parity = machine.ParityOdd
	}
	if err := statusUART.SetFormat(cfg.DataBits, cfg.StopBits, parity); err != nil {
		return err
	}

	// the PIO receiver takes GPIO1 back from the UART
	return receiver.Configure(cfg)
}
