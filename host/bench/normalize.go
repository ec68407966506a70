package bench

import "strconv"

// Normalize fills unset plan fields with defaults
func Normalize(p *Plan) {
	if p.Device == "" {
		p.Device = DefaultDevice
	}
	for i := range p.Runs {
		r := &p.Runs[i]
		if r.Name == "" {
			r.Name = "run-" + strconv.Itoa(i+1)
		}
		if r.Speed == 0 {
			r.Speed = DefaultSpeed
		}
		if r.Blocks == 0 {
			r.Blocks = DefaultBlocks
		}
		if r.Size == 0 {
			r.Size = DefaultBlockSize
		}
		if r.WaitMs == 0 {
			r.WaitMs = int(DefaultWait.Milliseconds())
		}
	}
}
