// Package protocol holds the text formats shared by the logger firmware and
// the host tools: log file names, status lines and the CRC16 checksum.
package protocol

// Version represents the logger firmware version
const Version = "0.1.0"

// File naming
const (
	ConfigName    = "config.txt"
	LogPrefix     = "LOG"
	LogSuffix     = ".BFL"
	LogDigits     = 5
	MaxFileNumber = 99999
)

// Line terminator for every status line sent by the logger
const LineEnd = "\r\n"
