package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/golang/glog"

	"sdlogger/core"
	"sdlogger/host/emu"
	"sdlogger/protocol"
)

var (
	device = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	dir    = flag.String("dir", "card", "Directory standing in for the SD card")
	speed  = flag.Int("speed", 0, "Override the config.txt baud rate (0 = use config)")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	fmt.Printf("sdlogger emulator %s\n", protocol.Version)
	fmt.Printf("Capturing %s into %s\n", *device, *dir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dev := emu.NewDevice(*device, *dir)
	dev.Speed = *speed

	err := dev.Run(ctx)
	if dropped := dev.Dropped(); dropped > 0 {
		glog.Warningf("%d bytes dropped in total", dropped)
	}

	var fault *core.Fault
	if errors.As(err, &fault) {
		glog.Exitf("logger halted with blink code %d: %v", fault.Code, fault)
	}
	if err != nil {
		glog.Exitf("%v", err)
	}
}
