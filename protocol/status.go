package protocol

import (
	"errors"
	"strconv"
	"strings"
)

// Status line keywords
const (
	WrittenKeyword = "written"
	CRCKeyword     = "CRC16"
)

// StatusKind classifies a line received from the logger
type StatusKind uint8

const (
	StatusUnknown StatusKind = iota
	StatusFileOpened
	StatusWritten
	StatusCRC
)

// Status is one parsed status line
type Status struct {
	Kind  StatusKind
	File  string // StatusFileOpened
	Bytes uint32 // StatusWritten
	CRC   uint16 // StatusCRC
}

var errBadStatus = errors.New("malformed status line")

// WrittenLine formats the rotation byte-count report, without terminator
func WrittenLine(n uint32) string {
	return WrittenKeyword + " " + FormatUint(n)
}

// CRCLine formats the rotation checksum report, e.g. "CRC16 0x0a3f"
func CRCLine(crc uint16) string {
	const hex = "0123456789abcdef"
	buf := [len(CRCKeyword) + 7]byte{}
	copy(buf[:], CRCKeyword)
	i := len(CRCKeyword)
	buf[i], buf[i+1], buf[i+2] = ' ', '0', 'x'
	for k := 0; k < 4; k++ {
		buf[i+3+k] = hex[(crc>>(12-4*k))&0xF]
	}
	return string(buf[:])
}

// ParseStatus parses a line sent by the logger. Trailing CR/LF is ignored.
func ParseStatus(line string) (Status, error) {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case strings.HasPrefix(line, WrittenKeyword+" "):
		n, err := strconv.ParseUint(line[len(WrittenKeyword)+1:], 10, 32)
		if err != nil {
			return Status{}, errBadStatus
		}
		return Status{Kind: StatusWritten, Bytes: uint32(n)}, nil
	case strings.HasPrefix(line, CRCKeyword+" 0x"):
		n, err := strconv.ParseUint(line[len(CRCKeyword)+3:], 16, 16)
		if err != nil {
			return Status{}, errBadStatus
		}
		return Status{Kind: StatusCRC, CRC: uint16(n)}, nil
	case HasLogPrefix(line) && strings.HasSuffix(strings.ToUpper(line), LogSuffix):
		return Status{Kind: StatusFileOpened, File: line}, nil
	}
	return Status{Kind: StatusUnknown}, errBadStatus
}

// FormatUint converts n to decimal without fmt
func FormatUint(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}
