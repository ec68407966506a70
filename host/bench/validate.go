package bench

import (
	"errors"
	"fmt"
	"math"
)

// Speeds lists the baud rates the traffic generator accepts
var Speeds = []int{
	2400, 4800, 9600, 19200, 38400, 57600, 115200, 230400,
	460800, 500000, 576000, 921600, 1000000, 1500000, 2000000,
}

// ValidSpeed reports whether bps is one of Speeds
func ValidSpeed(bps int) bool {
	for _, s := range Speeds {
		if s == bps {
			return true
		}
	}
	return false
}

// Validate checks a normalized plan
func Validate(p *Plan) error {
	if len(p.Runs) == 0 {
		return errors.New("plan has no runs")
	}
	for _, r := range p.Runs {
		if err := ValidateRun(r); err != nil {
			return fmt.Errorf("run %s: %w", r.Name, err)
		}
	}
	return nil
}

// ValidateRun checks one run's limits
func ValidateRun(r Run) error {
	if !ValidSpeed(r.Speed) {
		return fmt.Errorf("speed %d out of range or invalid", r.Speed)
	}
	if r.Blocks < 0 || r.Blocks > math.MaxUint16 {
		return fmt.Errorf("number %d out of range", r.Blocks)
	}
	if r.Size <= 0 || int64(r.Size) > math.MaxUint32 {
		return fmt.Errorf("size %d out of range", r.Size)
	}
	if r.WaitMs < 0 {
		return fmt.Errorf("wait_ms %d out of range", r.WaitMs)
	}
	return nil
}
