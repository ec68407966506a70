// Package bench drives a serial logger with pseudo-random traffic, measures
// throughput and checks the logger's per-file reports.
package bench

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults matching the classic single-run command line
const (
	DefaultDevice    = "/dev/ttyUSB0"
	DefaultSpeed     = 2000000
	DefaultBlocks    = 1
	DefaultBlockSize = 0xfffff // 1MiB - 1
	DefaultWait      = 5 * time.Second
)

// Plan is a sequence of benchmark runs against one device
type Plan struct {
	Device string `yaml:"device"`
	Runs   []Run  `yaml:"runs"`
}

// Run is one benchmark configuration
type Run struct {
	Name   string `yaml:"name"`
	Speed  int    `yaml:"speed"`
	Blocks int    `yaml:"blocks"`
	Size   int    `yaml:"size"`
	Seed   int64  `yaml:"seed"`

	// Verify waits for the logger's "written"/"CRC16" report after each
	// block and compares it with what was sent.
	Verify bool `yaml:"verify"`

	// WaitMs bounds the wait for the report once the block is sent. It must
	// exceed the logger's idle timeout.
	WaitMs int `yaml:"wait_ms"`
}

// Wait returns the report timeout
func (r Run) Wait() time.Duration {
	return time.Duration(r.WaitMs) * time.Millisecond
}

// LoadPlan reads a YAML plan file
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes, normalizes and validates a YAML plan
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	Normalize(&p)
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
