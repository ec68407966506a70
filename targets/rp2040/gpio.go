//go:build rp2040

package main

import (
	"errors"
	"machine"

	"sdlogger/core"
)

const numGPIO = 30

var errBadPin = errors.New("invalid GPIO pin")

// RPGPIODriver implements the GPIODriver interface for RP2040
type RPGPIODriver struct {
	// Track configured pins; ReadPin runs in the tick ISR so no map
	configured [numGPIO]bool
}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{}
}

// ConfigureOutput configures a pin as a digital output
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	if pin >= numGPIO {
		return errBadPin
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configured[pin] = true
	return nil
}

func (d *RPGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	if pin >= numGPIO {
		return errBadPin
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	d.configured[pin] = true
	return nil
}

// SetPin sets the pin to high (true) or low (false)
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	if pin >= numGPIO {
		return errBadPin
	}
	if !d.configured[pin] {
		// Pin isn't configured - configure it first
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
	}
	machine.Pin(pin).Set(value)
	return nil
}

func (d *RPGPIODriver) ReadPin(pin core.GPIOPin) bool {
	if pin >= numGPIO || !d.configured[pin] {
		return false
	}
	return machine.Pin(pin).Get()
}
