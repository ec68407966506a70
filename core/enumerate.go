package core

import (
	"io"

	"sdlogger/protocol"
)

// RootDir is the directory scanned at boot and holding all log files
const RootDir = "/"

// Inventory is what the boot scan learned about the card
type Inventory struct {
	LastNumber  uint32 // highest log sequence number found, 0 if none
	ConfigFound bool
}

// NextNumber returns the first sequence number that is safe to create
func (inv Inventory) NextNumber() uint32 {
	return inv.LastNumber + 1
}

// Enumerate scans the root directory once. Any directory error is a
// FaultDirectory.
func Enumerate(store Storage) (Inventory, error) {
	dir, err := store.OpenDir(RootDir)
	if err != nil {
		return Inventory{}, newFault(FaultDirectory, RootDir, err)
	}

	var inv Inventory
	for {
		name, err := dir.ReadName()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Inventory{}, newFault(FaultDirectory, RootDir, err)
		}
		inv.observe(name)
	}

	if err := dir.Close(); err != nil {
		return Inventory{}, newFault(FaultDirectory, RootDir, err)
	}
	return inv, nil
}

func (inv *Inventory) observe(name string) {
	if protocol.EqualFold(name, protocol.ConfigName) {
		inv.ConfigFound = true
	}
	if !protocol.HasLogPrefix(name) {
		return
	}
	n, ok := protocol.FirstNumber(name)
	if !ok {
		return
	}
	if n > inv.LastNumber {
		inv.LastNumber = n
	}
}
