package core

import (
	"time"

	"sdlogger/protocol"
)

// FaultCode identifies an unrecoverable condition. The value is the number of
// blinks shown by the status LED.
type FaultCode uint8

// Fault codes
const (
	FaultStorageInit FaultCode = 2 // card or filesystem init failed
	FaultDirectory   FaultCode = 3 // root directory open/read/close
	FaultOpen        FaultCode = 4 // file open or create
	FaultWrite       FaultCode = 5 // write failed or short
	FaultRead        FaultCode = 6 // read failed
	FaultClose       FaultCode = 7 // close failed
	FaultSync        FaultCode = 8 // flush to card failed
	FaultConfigParse FaultCode = 9 // config.txt record invalid
)

// String returns the fault name
func (c FaultCode) String() string {
	switch c {
	case FaultStorageInit:
		return "storage-init"
	case FaultDirectory:
		return "directory"
	case FaultOpen:
		return "open"
	case FaultWrite:
		return "write"
	case FaultRead:
		return "read"
	case FaultClose:
		return "close"
	case FaultSync:
		return "sync"
	case FaultConfigParse:
		return "config-parse"
	default:
		return "fault-" + protocol.FormatUint(uint32(c))
	}
}

// Fault is the error returned by Logger operations. Every Fault is fatal.
type Fault struct {
	Code FaultCode
	Name string // file involved, if any
	Err  error
}

func (f *Fault) Error() string {
	msg := f.Code.String() + " fault"
	if f.Name != "" {
		msg += " on " + f.Name
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func newFault(code FaultCode, name string, err error) *Fault {
	return &Fault{Code: code, Name: name, Err: err}
}

// Blink timing
const (
	BlinkInterval = 200 * time.Millisecond
	BlinkPause    = 2000 * time.Millisecond
)

// Indicator drives the status LED. Pulse holds the given level for d before
// returning (or queues it to hardware that does).
type Indicator interface {
	Pulse(on bool, d time.Duration)
}

// LED is a single on/off output
type LED interface {
	Set(on bool)
}

// PinIndicator turns an LED plus a delay function into an Indicator
type PinIndicator struct {
	LED   LED
	Sleep func(time.Duration)
}

func (p PinIndicator) Pulse(on bool, d time.Duration) {
	p.LED.Set(on)
	p.Sleep(d)
}

// ErrorSignal is the terminal fail-stop state
type ErrorSignal struct {
	ind Indicator
}

// NewErrorSignal creates an ErrorSignal that reports through ind
func NewErrorSignal(ind Indicator) *ErrorSignal {
	return &ErrorSignal{ind: ind}
}

// Halt blinks code forever and never returns
func (s *ErrorSignal) Halt(code FaultCode) {
	for {
		s.blinkOnce(code)
	}
}

// blinkOnce emits one full pattern: code pulses, then the long pause
func (s *ErrorSignal) blinkOnce(code FaultCode) {
	for c := FaultCode(0); c < code; c++ {
		s.ind.Pulse(true, BlinkInterval)
		s.ind.Pulse(false, BlinkInterval)
	}
	s.ind.Pulse(false, BlinkPause)
}
