//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs/fatfs"

	"sdlogger/core"
	"sdlogger/targets/fatstore"
)

// SD socket on SPI0
var (
	sdSPI  = machine.SPI0
	sdSCK  = machine.GPIO18
	sdSDO  = machine.GPIO19 // MOSI
	sdSDI  = machine.GPIO16 // MISO
	sdCS   = machine.GPIO17
	sdCD   = core.GPIOPin(22) // closed to ground when a card is in
	sdFreq = uint32(25000000)
)

// Set false for sockets without a card-detect switch
const hasCardDetect = true

// sdCard is the block device under the FAT volume
type sdCard struct {
	dev sdcard.Device
}

// NewSDStorage creates the FAT storage; the card is not touched until Mount
func NewSDStorage() *fatstore.Storage {
	card := &sdCard{}
	fs := fatfs.New(&card.dev)
	fs.Configure(&fatfs.Config{SectorSize: 512})
	return fatstore.New(fs, card.init)
}

// init brings up SPI and the card
func (c *sdCard) init() error {
	err := sdSPI.Configure(machine.SPIConfig{
		Frequency: sdFreq,
		SCK:       sdSCK,
		SDO:       sdSDO,
		SDI:       sdSDI,
		Mode:      0,
	})
	if err != nil {
		return err
	}

	c.dev = sdcard.New(sdSPI, sdSCK, sdSDO, sdSDI, sdCS)
	return c.dev.Configure()
}
