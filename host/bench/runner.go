package bench

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"sdlogger/host/serial"
	"sdlogger/protocol"
)

var (
	ErrReportTimeout = errors.New("timed out waiting for logger report")
	ErrMismatch      = errors.New("logger report does not match sent block")
)

// Result describes one transmitted block
type Result struct {
	Index int
	Block *Block
	Sent  Measurement

	// Report is filled when the run verifies
	Report   Report
	Verified bool
}

// Report is the pair of status lines the logger prints when it closes a file
type Report struct {
	File    string // file the logger opened next
	Written uint32
	CRC16   uint16
}

// Runner executes plan runs against a serial device
type Runner struct {
	Device string

	// Open opens the serial port; defaults to serial.Open
	Open func(*serial.Config) (serial.Port, error)
}

// NewRunner creates a runner for device
func NewRunner(device string) *Runner {
	return &Runner{Device: device, Open: serial.Open}
}

// Run sends r.Blocks blocks, reopening the port for each one. results is
// called after every block.
func (rn *Runner) Run(ctx context.Context, r Run, results func(Result)) error {
	if err := ValidateRun(r); err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(r.Seed))

	for i := 0; i < r.Blocks; i++ {
		block := NewBlock(rng, r.Size)
		glog.V(1).Infof("%s: block %d crc16 0x%04x crc32 0x%08x", r.Name, i, block.CRC16, block.CRC32)

		res, err := rn.sendBlock(ctx, r, i, block)
		if err != nil {
			return fmt.Errorf("%s block %d: %w", r.Name, i, err)
		}
		if results != nil {
			results(res)
		}
	}
	return nil
}

func (rn *Runner) sendBlock(ctx context.Context, r Run, index int, block *Block) (Result, error) {
	cfg := serial.DefaultConfig(rn.Device)
	cfg.Baud = r.Speed
	port, err := rn.Open(cfg)
	if err != nil {
		return Result{}, err
	}
	defer port.Close()

	res := Result{Index: index, Block: block}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	statuses := make(chan protocol.Status, 8)
	sent := make(chan struct{})
	if r.Verify {
		g.Go(func() error {
			return readStatus(gctx, port, statuses)
		})
		g.Go(func() error {
			// Stops the reader once the report is complete
			defer cancel()
			rep, err := awaitReport(gctx, statuses, sent, r.Wait())
			if err != nil {
				return err
			}
			res.Report = rep
			return nil
		})
	}

	g.Go(func() error {
		defer close(sent)
		start := time.Now()
		n, err := port.Write(block.Data)
		res.Sent = Measurement{
			Name:    fmt.Sprintf("%s#%d", r.Name, index),
			Bytes:   uint64(n),
			Elapsed: time.Since(start),
		}
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}
		if n != len(block.Data) {
			return fmt.Errorf("short write: %d of %d bytes", n, len(block.Data))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return res, err
	}
	if !r.Verify {
		return res, nil
	}
	if err := verify(block, res.Report); err != nil {
		return res, err
	}
	res.Verified = true
	return res, nil
}

// awaitReport collects "written" and "CRC16" lines. The timeout starts once
// the block has been sent.
func awaitReport(ctx context.Context, in <-chan protocol.Status, sent <-chan struct{}, wait time.Duration) (Report, error) {
	var (
		rep              Report
		haveLen, haveCRC bool
		deadline         <-chan time.Time
		sentCh           = sent
	)
	for {
		select {
		case <-ctx.Done():
			return rep, ctx.Err()
		case <-sentCh:
			sentCh = nil
			deadline = time.After(wait)
		case <-deadline:
			return rep, ErrReportTimeout
		case st, ok := <-in:
			if !ok {
				return rep, ErrReportTimeout
			}
			switch st.Kind {
			case protocol.StatusWritten:
				rep.Written = st.Bytes
				haveLen = true
			case protocol.StatusCRC:
				rep.CRC16 = st.CRC
				haveCRC = true
			case protocol.StatusFileOpened:
				rep.File = st.File
				// the next file is announced right after the report
				if haveLen && haveCRC {
					return rep, nil
				}
			}
		}
	}
}

func verify(block *Block, rep Report) error {
	if rep.Written != uint32(len(block.Data)) {
		return fmt.Errorf("%w: logger wrote %d bytes, sent %d", ErrMismatch, rep.Written, len(block.Data))
	}
	if rep.CRC16 != block.CRC16 {
		return fmt.Errorf("%w: logger crc16 0x%04x, sent 0x%04x", ErrMismatch, rep.CRC16, block.CRC16)
	}
	return nil
}
