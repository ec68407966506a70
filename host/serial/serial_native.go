package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// NativePort wraps the tarm/serial implementation
type NativePort struct {
	port *serial.Port
	cfg  *Config
}

// Open opens a native serial port
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	serialConfig, err := tarmConfig(cfg)
	if err != nil {
		return nil, err
	}

	port, err := serial.OpenPort(serialConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{
		port: port,
		cfg:  cfg,
	}, nil
}

// tarmConfig translates Config into tarm/serial settings
func tarmConfig(cfg *Config) (*serial.Config, error) {
	sc := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
		Size:        cfg.DataBits,
	}

	switch cfg.Parity {
	case 0, 'N':
		sc.Parity = serial.ParityNone
	case 'E':
		sc.Parity = serial.ParityEven
	case 'O':
		sc.Parity = serial.ParityOdd
	default:
		return nil, fmt.Errorf("unsupported parity %q", cfg.Parity)
	}

	switch cfg.StopBits {
	case 0, 1:
		sc.StopBits = serial.Stop1
	case 2:
		sc.StopBits = serial.Stop2
	default:
		return nil, fmt.Errorf("unsupported stop bits %d", cfg.StopBits)
	}

	return sc, nil
}

// Read reads data from the serial port
func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Write writes data to the serial port
func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port
func (p *NativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush discards data received but not yet read
func (p *NativePort) Flush() error {
	return p.port.Flush()
}
