package core

import (
	"errors"
	"io"

	"sdlogger/protocol"
)

// State of the logger state machine
type State uint8

const (
	StateBoot State = iota
	StateWriting
	StateRotating
	StateHalted
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateBoot:
		return "boot"
	case StateWriting:
		return "writing"
	case StateRotating:
		return "rotating"
	case StateHalted:
		return "halted"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	errSequenceExhausted = errors.New("log sequence number exceeds 5 digits")
	errCardRemoved       = errors.New("card removed")
	errNotWriting        = errors.New("logger is not writing")
)

// Options wires a Logger to its collaborators
type Options struct {
	Ring    *RingBuffer
	Ticks   *TickSource
	Storage Storage

	// Status is the blocking serial transmit primitive used for status lines
	Status io.ByteWriter

	// Activity is toggled around each card write (optional)
	Activity LED

	// Signal is the fail-stop surface used by Run
	Signal *ErrorSignal

	// Apply pushes the loaded config to the serial receiver (optional).
	// A rejected config is a FaultConfigParse.
	Apply func(DeviceConfig) error

	// CardPresent reports the debounced card-detect switch (optional)
	CardPresent func() bool
}

// Logger drains the receive ring into sequentially numbered log files
type Logger struct {
	opts   Options
	state  State
	cfg    DeviceConfig
	policy RotationPolicy

	number uint32
	name   string
	file   File

	block [BlockSize]byte
	fill  int

	lastWrite uint32
	written   uint32
	crc       uint16
}

// NewLogger creates a Logger. Boot must be called before Step.
func NewLogger(opts Options) *Logger {
	return &Logger{
		opts:   opts,
		state:  StateBoot,
		cfg:    DefaultConfig(),
		policy: RotationPolicy{IdleTicks: DefaultIdleTicks},
	}
}

// Boot mounts the card, restores or creates config.txt and opens the first
// log file above every number already on the card.
func (l *Logger) Boot() error {
	if err := l.opts.Storage.Mount(); err != nil {
		return l.fail(newFault(FaultStorageInit, "", err))
	}

	inv, err := Enumerate(l.opts.Storage)
	if err != nil {
		return l.fail(err)
	}

	cfg := DefaultConfig()
	if inv.ConfigFound {
		cfg, err = loadConfig(l.opts.Storage)
	} else {
		err = storeConfig(l.opts.Storage, cfg)
	}
	if err != nil {
		return l.fail(err)
	}

	l.cfg = cfg
	l.policy = RotationPolicy{IdleTicks: cfg.IdleTicks()}
	if l.opts.Apply != nil {
		if err := l.opts.Apply(cfg); err != nil {
			return l.fail(newFault(FaultConfigParse, protocol.ConfigName, err))
		}
	}

	l.number = inv.LastNumber
	if err := l.openNext(); err != nil {
		return l.fail(err)
	}
	l.state = StateWriting
	return nil
}

// Step runs one main loop iteration: write at most one block, then rotate
// the file if it has been idle long enough.
func (l *Logger) Step() error {
	if l.state != StateWriting {
		return errNotWriting
	}
	if l.opts.CardPresent != nil && !l.opts.CardPresent() {
		return l.fail(newFault(FaultStorageInit, l.name, errCardRemoved))
	}

	if err := l.capture(); err != nil {
		return l.fail(err)
	}

	if l.policy.Due(l.opts.Ticks.Now(), l.lastWrite) {
		if err := l.rotate(); err != nil {
			return l.fail(err)
		}
	}
	return nil
}

// Run boots and loops forever. Any fault ends in the blink-and-halt state.
func (l *Logger) Run() {
	err := l.Boot()
	for err == nil {
		err = l.Step()
	}

	code := FaultWrite
	var fault *Fault
	if errors.As(err, &fault) {
		code = fault.Code
	}
	l.opts.Signal.Halt(code)
}

// Close flushes staged bytes and closes the current file. Used by hosts that
// can stop the logger; the device never returns from Run.
func (l *Logger) Close() error {
	if l.state != StateWriting {
		return errNotWriting
	}
	for l.fill > 0 || !l.opts.Ring.IsEmpty() {
		if err := l.capture(); err != nil {
			return l.fail(err)
		}
	}
	if err := l.closeFile(); err != nil {
		return l.fail(err)
	}
	l.report()
	l.state = StateClosed
	return nil
}

// State returns the current state
func (l *Logger) State() State {
	return l.state
}

// Config returns the config in effect
func (l *Logger) Config() DeviceConfig {
	return l.cfg
}

// FileName returns the name of the current log file
func (l *Logger) FileName() string {
	return l.name
}

// Written returns the bytes written to the current file
func (l *Logger) Written() uint32 {
	return l.written
}

func (l *Logger) rotate() error {
	l.state = StateRotating
	if err := l.closeFile(); err != nil {
		return err
	}
	l.report()
	if err := l.openNext(); err != nil {
		return err
	}
	l.state = StateWriting
	return nil
}

func (l *Logger) closeFile() error {
	if s, ok := l.file.(Syncer); ok {
		if err := s.Sync(); err != nil {
			return newFault(FaultSync, l.name, err)
		}
	}
	if err := l.file.Close(); err != nil {
		return newFault(FaultClose, l.name, err)
	}
	l.file = nil
	return nil
}

// openNext creates the file after the current sequence number
func (l *Logger) openNext() error {
	l.number++
	name, ok := protocol.FileName(l.number)
	if !ok {
		return newFault(FaultOpen, "", errSequenceExhausted)
	}

	f, err := l.opts.Storage.Create(name)
	if err != nil {
		return newFault(FaultOpen, name, err)
	}

	l.file = f
	l.name = name
	l.lastWrite = 0
	l.written = 0
	l.crc = 0
	l.println(name)
	return nil
}

// report sends the totals of the file just closed
func (l *Logger) report() {
	l.println(protocol.WrittenLine(l.written))
	l.println(protocol.CRCLine(l.crc))
}

func (l *Logger) println(s string) {
	if l.opts.Status == nil {
		return
	}
	for i := 0; i < len(s); i++ {
		_ = l.opts.Status.WriteByte(s[i])
	}
	for i := 0; i < len(protocol.LineEnd); i++ {
		_ = l.opts.Status.WriteByte(protocol.LineEnd[i])
	}
}

func (l *Logger) fail(err error) error {
	l.state = StateHalted
	return err
}
