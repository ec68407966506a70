package core

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sort"
)

// memStorage is an in-memory Storage with injectable failures
type memStorage struct {
	files map[string]*bytes.Buffer

	mountErr    error
	openDirErr  error
	readDirErr  error
	closeDirErr error
	createErr   error
	openErr     error
	writeErr    error
	closeErr    error
	syncErr     error
	readErr     error
	shortWrite  bool

	created []string
	synced  int
	closes  int
}

func newMemStorage(names ...string) *memStorage {
	s := &memStorage{files: make(map[string]*bytes.Buffer)}
	for _, name := range names {
		s.files[name] = &bytes.Buffer{}
	}
	return s
}

func (s *memStorage) Mount() error {
	return s.mountErr
}

func (s *memStorage) OpenDir(path string) (Dir, error) {
	if s.openDirErr != nil {
		return nil, s.openDirErr
	}
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return &memDir{names: names, store: s}, nil
}

func (s *memStorage) Create(name string) (File, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, exists := s.files[name]; exists {
		return nil, os.ErrExist
	}
	buf := &bytes.Buffer{}
	s.files[name] = buf
	s.created = append(s.created, name)
	return &memFile{buf: buf, store: s}, nil
}

func (s *memStorage) Open(name string) (File, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	buf, ok := s.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &memFile{buf: bytes.NewBuffer(buf.Bytes()), store: s}, nil
}

// contents returns the bytes stored under name
func (s *memStorage) contents(name string) []byte {
	if buf, ok := s.files[name]; ok {
		return buf.Bytes()
	}
	return nil
}

type memDir struct {
	names []string
	pos   int
	store *memStorage
}

func (d *memDir) ReadName() (string, error) {
	if d.store.readDirErr != nil {
		return "", d.store.readDirErr
	}
	if d.pos == len(d.names) {
		return "", io.EOF
	}
	name := d.names[d.pos]
	d.pos++
	return name, nil
}

func (d *memDir) Close() error {
	return d.store.closeDirErr
}

type memFile struct {
	buf    *bytes.Buffer
	store  *memStorage
	closed bool
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.store.readErr != nil {
		return 0, f.store.readErr
	}
	return f.buf.Read(p)
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, errors.New("write on closed file")
	}
	if f.store.writeErr != nil {
		return 0, f.store.writeErr
	}
	if f.store.shortWrite && len(p) > 1 {
		p = p[:len(p)/2]
	}
	return f.buf.Write(p)
}

func (f *memFile) Sync() error {
	f.store.synced++
	return f.store.syncErr
}

func (f *memFile) Close() error {
	f.closed = true
	f.store.closes++
	return f.store.closeErr
}
