package emu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"sdlogger/core"
	"sdlogger/host/serial"
)

var errNoPort = errors.New("serial port not open")

// idlePoll is how long the capture loop sleeps when the ring is empty
const idlePoll = time.Millisecond

// Device emulates the logger hardware
type Device struct {
	Storage core.Storage
	Device  string

	// Speed overrides the config baud when non-zero, for hosts that only
	// support standard rates
	Speed int

	// Open opens the serial port; defaults to serial.Open
	Open func(*serial.Config) (serial.Port, error)

	ring   core.RingBuffer
	ticks  core.TickSource
	port   serial.Port
	logger *core.Logger
}

// NewDevice creates an emulated logger on device writing into root
func NewDevice(device, root string) *Device {
	return &Device{
		Storage: &DirStorage{Root: root},
		Device:  device,
		Open:    serial.Open,
	}
}

// Logger returns the logger, valid once Run has started
func (d *Device) Logger() *core.Logger {
	return d.logger
}

// Dropped returns the bytes lost to ring overflow
func (d *Device) Dropped() uint32 {
	return d.ring.Dropped()
}

// Run boots the logger and captures until ctx is cancelled, then closes the
// current file. A logger fault is returned as *core.Fault.
func (d *Device) Run(ctx context.Context) error {
	d.logger = core.NewLogger(core.Options{
		Ring:    &d.ring,
		Ticks:   &d.ticks,
		Storage: d.Storage,
		Status:  d,
		Apply:   d.apply,
	})
	defer d.closePort()

	if err := d.logger.Boot(); err != nil {
		return err
	}
	cfg := d.logger.Config()
	glog.Infof("logging to %s, config %s", d.logger.FileName(), cfg.String())

	g, gctx := errgroup.WithContext(ctx)
	rxDone := make(chan struct{})

	g.Go(func() error {
		ticker := time.NewTicker(core.TickPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				d.ticks.Tick()
			}
		}
	})

	g.Go(func() error {
		defer close(rxDone)
		return d.receive(gctx)
	})

	g.Go(func() error {
		return d.capture(gctx, rxDone)
	})

	return g.Wait()
}

// receive plays the part of the UART interrupt. An idle line times out as
// (0, io.EOF) with tarm/serial and is read again.
func (d *Device) receive(ctx context.Context) error {
	var buf [64]byte
	for ctx.Err() == nil {
		n, err := d.port.Read(buf[:])
		for _, b := range buf[:n] {
			d.ring.Push(b)
		}
		if err == nil || (n == 0 && errors.Is(err, io.EOF)) {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("serial read: %w", err)
	}
	return nil
}

func (d *Device) capture(ctx context.Context, rxDone <-chan struct{}) error {
	var lastDropped uint32
	for {
		select {
		case <-ctx.Done():
			<-rxDone
			return d.shutdown()
		default:
		}

		if err := d.logger.Step(); err != nil {
			return err
		}
		if dropped := d.ring.Dropped(); dropped != lastDropped {
			glog.Warningf("ring overflow: %d bytes dropped", dropped-lastDropped)
			lastDropped = dropped
		}
		if d.ring.IsEmpty() {
			time.Sleep(idlePoll)
		}
	}
}

func (d *Device) shutdown() error {
	name := d.logger.FileName()
	if err := d.logger.Close(); err != nil {
		return err
	}
	glog.V(1).Infof("closed %s", name)
	return nil
}

// apply opens the port with the framing from config.txt
func (d *Device) apply(cfg core.DeviceConfig) error {
	pc := serial.FromDeviceConfig(d.Device, cfg)
	if d.Speed != 0 {
		pc.Baud = d.Speed
	}
	d.closePort()
	port, err := d.Open(pc)
	if err != nil {
		return err
	}
	d.port = port
	return nil
}

func (d *Device) closePort() {
	if d.port == nil {
		return
	}
	if err := d.port.Close(); err != nil {
		glog.Warningf("close %s: %v", d.Device, err)
	}
	d.port = nil
}

// WriteByte sends one status byte back over the serial port
func (d *Device) WriteByte(c byte) error {
	if d.port == nil {
		return errNoPort
	}
	_, err := d.port.Write([]byte{c})
	return err
}
