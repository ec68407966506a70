package serial

import (
	"io"

	"sdlogger/core"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate
	Baud int

	// Framing, as stored in the logger's config.txt
	DataBits uint8
	Parity   byte // 'N', 'E' or 'O'
	StopBits uint8

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns a default 8N1 configuration at the logger's default speed
func DefaultConfig(device string) *Config {
	return FromDeviceConfig(device, core.DefaultConfig())
}

// FromDeviceConfig builds a port configuration matching a logger config record
func FromDeviceConfig(device string, cfg core.DeviceConfig) *Config {
	return &Config{
		Device:      device,
		Baud:        int(cfg.Baud),
		DataBits:    cfg.DataBits,
		Parity:      cfg.Parity,
		StopBits:    cfg.StopBits,
		ReadTimeout: 100, // 100ms read timeout
	}
}
