package bench

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Measurement is the bytes moved over an interval
type Measurement struct {
	Name    string
	Bytes   uint64
	Elapsed time.Duration
}

// Rate returns bytes per second
func (m Measurement) Rate() float64 {
	if m.Elapsed <= 0 {
		return 0
	}
	return float64(m.Bytes) / m.Elapsed.Seconds()
}

func (m Measurement) String() string {
	return fmt.Sprintf("'%s' processed %d bytes in %.3f secs (%s/s)",
		m.Name, m.Bytes, m.Elapsed.Seconds(), humanize.Bytes(uint64(m.Rate())))
}

// Estimate is the theoretical line rate for a run at 8 bits per byte
type Estimate struct {
	BytesPerSec  float64
	SecsPerBlock float64
}

// EstimateRun computes the line-rate estimate printed before a run
func EstimateRun(r Run) Estimate {
	bps := float64(r.Speed) / 8
	return Estimate{
		BytesPerSec:  bps,
		SecsPerBlock: float64(r.Size) / bps,
	}
}
