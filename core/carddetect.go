package core

import "sync/atomic"

// cardDebounceTicks is how many consecutive ticks a new switch level must
// hold before it is believed (50ms)
const cardDebounceTicks = 5

// CardDetect debounces the SD socket card-detect switch. Poll runs as tick
// housekeeping; Present is read from the main loop.
type CardDetect struct {
	pin       GPIOPin
	activeLow bool
	present   atomic.Bool
	count     uint8
}

// NewCardDetect configures pin as a pulled-up input
func NewCardDetect(pin GPIOPin, activeLow bool) (*CardDetect, error) {
	if err := MustGPIO().ConfigureInputPullUp(pin); err != nil {
		return nil, err
	}
	c := &CardDetect{pin: pin, activeLow: activeLow}
	c.present.Store(c.sample())
	return c, nil
}

func (c *CardDetect) sample() bool {
	return MustGPIO().ReadPin(c.pin) != c.activeLow
}

// Poll samples the switch once. Called from the tick ISR.
func (c *CardDetect) Poll() {
	raw := c.sample()
	if raw == c.present.Load() {
		c.count = 0
		return
	}
	c.count++
	if c.count >= cardDebounceTicks {
		c.present.Store(raw)
		c.count = 0
	}
}

// Present reports the debounced socket state
func (c *CardDetect) Present() bool {
	return c.present.Load()
}
