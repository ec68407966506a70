package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"

	"sdlogger/host/bench"
)

var (
	device = flag.String("device", bench.DefaultDevice, "Serial device path")
	speed  = flag.Int("speed", bench.DefaultSpeed, "Baud rate")
	number = flag.Int("number", bench.DefaultBlocks, "Number of blocks to send")
	size   = flag.Int("size", bench.DefaultBlockSize, "Block size in bytes")
	seed   = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	verify = flag.Bool("verify", false, "Wait for the logger report after each block and check it")
	wait   = flag.Duration("wait", bench.DefaultWait, "Report timeout (must exceed the logger idle timeout)")
	plan   = flag.String("plan", "", "YAML run plan (overrides the single-run flags)")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	p, err := loadPlan()
	if err != nil {
		glog.Exitf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := bench.NewRunner(p.Device)
	for _, r := range p.Runs {
		est := bench.EstimateRun(r)
		fmt.Printf("%s: %d blocks of %d bytes at %d baud on %s\n", r.Name, r.Blocks, r.Size, r.Speed, p.Device)
		fmt.Printf("Estimated %.0f bytes/sec, %.3f secs/block\n", est.BytesPerSec, est.SecsPerBlock)

		err := runner.Run(ctx, r, printResult)
		if err != nil {
			glog.Exitf("%v", err)
		}
	}
}

// loadPlan reads -plan or builds a single run from the flags
func loadPlan() (*bench.Plan, error) {
	if *plan != "" {
		p, err := bench.LoadPlan(*plan)
		if err != nil {
			return nil, err
		}
		glog.V(1).Infof("loaded %d runs from %s", len(p.Runs), *plan)
		return p, nil
	}

	p := &bench.Plan{
		Device: *device,
		Runs: []bench.Run{{
			Name:   "cli",
			Speed:  *speed,
			Blocks: *number,
			Size:   *size,
			Seed:   *seed,
			Verify: *verify,
			WaitMs: int(wait.Milliseconds()),
		}},
	}
	bench.Normalize(p)
	if err := bench.Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func printResult(r bench.Result) {
	fmt.Printf("Block %d: crc16 0x%04x crc32 0x%08x\n", r.Index, r.Block.CRC16, r.Block.CRC32)
	fmt.Println(r.Sent.String())
	if r.Verified {
		fmt.Printf("Verified: logger wrote %d bytes, crc16 0x%04x, now on %s\n",
			r.Report.Written, r.Report.CRC16, r.Report.File)
	}
}
