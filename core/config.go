package core

import (
	"errors"
	"io"

	"sdlogger/protocol"
)

// configReadMax bounds the config record read at boot
const configReadMax = 128

// DefaultIdleTimeout is the idle-close timeout used when the config holds 0
const DefaultIdleTimeout = 3

// DeviceConfig holds the serial link settings persisted in config.txt as
// BAUD,DATABITS,PARITY,STOPBITS,IDLETIMEOUTSEC
type DeviceConfig struct {
	Baud        uint32
	DataBits    uint8
	Parity      byte // 'N', 'E' or 'O'
	StopBits    uint8
	IdleTimeout uint8 // seconds without data before the file is closed
}

// DefaultConfig returns the record written on first boot
func DefaultConfig() DeviceConfig {
	return DeviceConfig{
		Baud:        234000,
		DataBits:    8,
		Parity:      'N',
		StopBits:    1,
		IdleTimeout: DefaultIdleTimeout,
	}
}

// IdleTicks returns the rotation threshold in ticks
func (c DeviceConfig) IdleTicks() uint32 {
	sec := uint32(c.IdleTimeout)
	if sec == 0 {
		sec = DefaultIdleTimeout
	}
	return TicksFromSeconds(sec)
}

// String formats the config record, e.g. "234000,8,N,1,3"
func (c DeviceConfig) String() string {
	return protocol.FormatUint(c.Baud) + "," +
		protocol.FormatUint(uint32(c.DataBits)) + "," +
		string(c.Parity) + "," +
		protocol.FormatUint(uint32(c.StopBits)) + "," +
		protocol.FormatUint(uint32(c.IdleTimeout))
}

var errConfigFields = errors.New("config record needs 5 fields")

// ParseConfig parses a config record. Anything other than exactly five valid
// comma-separated fields is rejected.
func ParseConfig(s string) (DeviceConfig, error) {
	var fields [5]string
	n := 0
	s = trimRecord(s)
	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ',' {
			continue
		}
		if n == len(fields) {
			return DeviceConfig{}, errConfigFields
		}
		fields[n] = trimRecord(s[start:i])
		n++
		start = i + 1
	}
	if n != len(fields) {
		return DeviceConfig{}, errConfigFields
	}

	var cfg DeviceConfig
	baud, ok := parseUint(fields[0], ^uint32(0))
	if !ok || baud == 0 {
		return DeviceConfig{}, errors.New("invalid baud rate: " + fields[0])
	}
	cfg.Baud = baud

	bits, ok := parseUint(fields[1], 255)
	if !ok || bits < 5 || bits > 8 {
		return DeviceConfig{}, errors.New("invalid data bits: " + fields[1])
	}
	cfg.DataBits = uint8(bits)

	if len(fields[2]) != 1 {
		return DeviceConfig{}, errors.New("invalid parity: " + fields[2])
	}
	switch p := fields[2][0]; p {
	case 'N', 'E', 'O':
		cfg.Parity = p
	case 'n', 'e', 'o':
		cfg.Parity = p - ('a' - 'A')
	default:
		return DeviceConfig{}, errors.New("invalid parity: " + fields[2])
	}

	stop, ok := parseUint(fields[3], 255)
	if !ok || stop < 1 || stop > 2 {
		return DeviceConfig{}, errors.New("invalid stop bits: " + fields[3])
	}
	cfg.StopBits = uint8(stop)

	idle, ok := parseUint(fields[4], 255)
	if !ok {
		return DeviceConfig{}, errors.New("invalid idle timeout: " + fields[4])
	}
	cfg.IdleTimeout = uint8(idle)

	return cfg, nil
}

// storeConfig writes the default record to a new config file
func storeConfig(store Storage, cfg DeviceConfig) error {
	f, err := store.Create(protocol.ConfigName)
	if err != nil {
		return newFault(FaultOpen, protocol.ConfigName, err)
	}

	record := cfg.String()
	n, err := f.Write([]byte(record))
	if err == nil && n != len(record) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return newFault(FaultWrite, protocol.ConfigName, err)
	}

	if err := f.Close(); err != nil {
		return newFault(FaultClose, protocol.ConfigName, err)
	}
	return nil
}

// loadConfig reads and parses the existing config file
func loadConfig(store Storage) (DeviceConfig, error) {
	f, err := store.Open(protocol.ConfigName)
	if err != nil {
		return DeviceConfig{}, newFault(FaultOpen, protocol.ConfigName, err)
	}

	var buf [configReadMax]byte
	n, err := io.ReadFull(f, buf[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		_ = f.Close()
		return DeviceConfig{}, newFault(FaultRead, protocol.ConfigName, err)
	}

	cfg, err := ParseConfig(string(buf[:n]))
	if err != nil {
		_ = f.Close()
		return DeviceConfig{}, newFault(FaultConfigParse, protocol.ConfigName, err)
	}

	if err := f.Close(); err != nil {
		return DeviceConfig{}, newFault(FaultClose, protocol.ConfigName, err)
	}
	return cfg, nil
}
