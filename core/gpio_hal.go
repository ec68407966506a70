package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
	ConfigureInputPullUp(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// ReadPin reads the current pin state. Must be safe to call from the tick ISR.
	ReadPin(pin GPIOPin) bool
}

// Global singleton used by core code.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}

// PinLED is an LED on a GPIO output of the registered driver
type PinLED struct {
	Pin    GPIOPin
	Invert bool
}

// NewPinLED configures pin as an output and returns it switched off
func NewPinLED(pin GPIOPin, invert bool) (*PinLED, error) {
	led := &PinLED{Pin: pin, Invert: invert}
	if err := MustGPIO().ConfigureOutput(pin); err != nil {
		return nil, err
	}
	led.Set(false)
	return led, nil
}

func (l *PinLED) Set(on bool) {
	_ = MustGPIO().SetPin(l.Pin, on != l.Invert)
}
