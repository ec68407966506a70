package core

import (
	"io"

	"sdlogger/protocol"
)

// BlockSize is the staging block flushed to the card in one write
const BlockSize = 128

// capture drains the ring into the staging block and writes it out. It
// writes at most one block per call so rotation is checked between writes.
func (l *Logger) capture() error {
	for l.fill < BlockSize {
		b, ok := l.opts.Ring.Pop()
		if !ok {
			break
		}
		l.block[l.fill] = b
		l.fill++
	}
	if l.fill == 0 {
		return nil
	}

	l.setActivity(true)
	n, err := l.file.Write(l.block[:l.fill])
	l.setActivity(false)
	if err == nil && n != l.fill {
		err = io.ErrShortWrite
	}
	if err != nil {
		return newFault(FaultWrite, l.name, err)
	}

	l.crc = protocol.UpdateCRC16(l.crc, l.block[:l.fill])
	l.written += uint32(n)
	l.fill = 0

	// Zero means "nothing written yet" to the rotation policy.
	now := l.opts.Ticks.Now()
	if now == 0 {
		now = 1
	}
	l.lastWrite = now
	return nil
}

func (l *Logger) setActivity(on bool) {
	if l.opts.Activity != nil {
		l.opts.Activity.Set(on)
	}
}
