package core

import "io"

// Storage is the filesystem collaborator: a FAT volume on the SD card on the
// device, a host directory in the emulator.
type Storage interface {
	// Mount brings up the card and filesystem
	Mount() error

	// OpenDir opens a directory for enumeration
	OpenDir(path string) (Dir, error)

	// Create creates a new file for writing. It fails if name exists.
	Create(name string) (File, error)

	// Open opens an existing file for reading
	Open(name string) (File, error)
}

// Dir enumerates directory entries
type Dir interface {
	// ReadName returns the next entry name, or io.EOF after the last one
	ReadName() (string, error)
	Close() error
}

// File is an open file. Write returns the number of bytes actually stored.
type File interface {
	io.ReadWriteCloser
}

// Syncer is implemented by files that can flush to the medium before close
type Syncer interface {
	Sync() error
}
