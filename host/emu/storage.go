// Package emu runs the logger pipeline on a host: bytes from a serial port
// are captured into numbered files in a directory.
package emu

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sdlogger/core"
)

// DirStorage implements core.Storage on a host directory
type DirStorage struct {
	Root string
}

// Mount creates the root directory if needed
func (s *DirStorage) Mount() error {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return fmt.Errorf("mount %s: %w", s.Root, err)
	}
	return nil
}

func (s *DirStorage) OpenDir(path string) (core.Dir, error) {
	f, err := os.Open(s.path(path))
	if err != nil {
		return nil, err
	}
	return &dir{f: f}, nil
}

// Create opens name for writing, failing if it already exists
func (s *DirStorage) Create(name string) (core.File, error) {
	f, err := os.OpenFile(s.path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *DirStorage) Open(name string) (core.File, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *DirStorage) path(name string) string {
	return filepath.Join(s.Root, filepath.FromSlash(name))
}

type dir struct {
	f *os.File
}

func (d *dir) ReadName() (string, error) {
	names, err := d.f.Readdirnames(1)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", io.EOF
	}
	return names[0], nil
}

func (d *dir) Close() error {
	return d.f.Close()
}
