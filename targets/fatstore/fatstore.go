// Package fatstore implements core.Storage on a tinyfs filesystem, normally
// FAT on an SD card.
package fatstore

import (
	"io"
	"os"

	"tinygo.org/x/tinyfs"

	"sdlogger/core"
)

// Storage adapts a tinyfs.Filesystem to core.Storage
type Storage struct {
	FS tinyfs.Filesystem

	// Init brings up the block device before mounting (optional)
	Init func() error
}

// New creates a Storage on fs. init runs on every Mount.
func New(fs tinyfs.Filesystem, init func() error) *Storage {
	return &Storage{FS: fs, Init: init}
}

// Mount initializes the device and mounts the filesystem
func (s *Storage) Mount() error {
	if s.Init != nil {
		if err := s.Init(); err != nil {
			return err
		}
	}
	return s.FS.Mount()
}

func (s *Storage) OpenDir(path string) (core.Dir, error) {
	f, err := s.FS.Open(path)
	if err != nil {
		return nil, err
	}
	return &dir{f: f}, nil
}

// Create opens a new file for writing and fails with os.ErrExist if name is
// already there. fatfs has no create-exclusive flag mapping, so existence is
// checked first.
func (s *Storage) Create(name string) (core.File, error) {
	if _, err := s.FS.Stat(name); err == nil {
		return nil, os.ErrExist
	}
	f, err := s.FS.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Storage) Open(name string) (core.File, error) {
	f, err := s.FS.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// dir hands out directory entries one at a time. fatfs Readdir returns every
// remaining entry whatever count is asked for, so the first call is buffered.
type dir struct {
	f      tinyfs.File
	names  []string
	loaded bool
}

func (d *dir) ReadName() (string, error) {
	if !d.loaded {
		infos, err := d.f.Readdir(-1)
		if err != nil && err != io.EOF {
			return "", err
		}
		d.names = make([]string, 0, len(infos))
		for _, info := range infos {
			d.names = append(d.names, info.Name())
		}
		d.loaded = true
	}
	if len(d.names) == 0 {
		return "", io.EOF
	}
	name := d.names[0]
	d.names = d.names[1:]
	return name, nil
}

func (d *dir) Close() error {
	return d.f.Close()
}
