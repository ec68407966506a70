package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"sdlogger/protocol"
)

type loggerHarness struct {
	ring   *RingBuffer
	ticks  *TickSource
	store  *memStorage
	status *bytes.Buffer
	led    *fakeLED
	logger *Logger
}

func newHarness(store *memStorage) *loggerHarness {
	h := &loggerHarness{
		ring:   &RingBuffer{},
		ticks:  &TickSource{},
		store:  store,
		status: &bytes.Buffer{},
		led:    &fakeLED{},
	}
	h.logger = NewLogger(Options{
		Ring:     h.ring,
		Ticks:    h.ticks,
		Storage:  store,
		Status:   h.status,
		Activity: h.led,
	})
	return h
}

func (h *loggerHarness) advance(n int) {
	for i := 0; i < n; i++ {
		h.ticks.Tick()
	}
}

func (h *loggerHarness) feed(data []byte) {
	for _, b := range data {
		h.ring.Push(b)
	}
}

func (h *loggerHarness) step(t *testing.T) {
	t.Helper()
	if err := h.logger.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
}

func (h *loggerHarness) lines() []string {
	return strings.Split(strings.TrimSuffix(h.status.String(), protocol.LineEnd), protocol.LineEnd)
}

func TestLoggerBootFreshCard(t *testing.T) {
	h := newHarness(newMemStorage())

	if err := h.logger.Boot(); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}

	if got := string(h.store.contents(protocol.ConfigName)); got != DefaultConfig().String() {
		t.Errorf("Expected default config written, got %q", got)
	}
	if h.logger.FileName() != "LOG00001.BFL" {
		t.Errorf("Expected first file LOG00001.BFL, got %s", h.logger.FileName())
	}
	if h.logger.State() != StateWriting {
		t.Errorf("Expected writing state, got %v", h.logger.State())
	}
	if got := h.status.String(); got != "LOG00001.BFL\r\n" {
		t.Errorf("Expected filename echo, got %q", got)
	}
}

func TestLoggerBootResumesNumbering(t *testing.T) {
	store := newMemStorage("LOG00001.BFL", "LOG00042.BFL", protocol.ConfigName)
	store.files[protocol.ConfigName].WriteString("115200,8,E,1,10")
	h := newHarness(store)

	var applied DeviceConfig
	h.logger.opts.Apply = func(cfg DeviceConfig) error {
		applied = cfg
		return nil
	}

	if err := h.logger.Boot(); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}
	if h.logger.FileName() != "LOG00043.BFL" {
		t.Errorf("Expected LOG00043.BFL, got %s", h.logger.FileName())
	}
	if applied.Baud != 115200 || applied.Parity != 'E' {
		t.Errorf("Config not applied: %+v", applied)
	}
	if h.logger.policy.IdleTicks != 1000 {
		t.Errorf("Expected idle threshold from config, got %d", h.logger.policy.IdleTicks)
	}
}

func TestLoggerBootFaults(t *testing.T) {
	store := newMemStorage()
	store.mountErr = errors.New("no card")
	h := newHarness(store)
	assertFault(t, h.logger.Boot(), FaultStorageInit)
	if h.logger.State() != StateHalted {
		t.Errorf("Expected halted state, got %v", h.logger.State())
	}

	// Enumeration missed an existing file: create-new must refuse it
	store = newMemStorage(protocol.ConfigName, "LOG00001.BFL")
	store.files[protocol.ConfigName].WriteString(DefaultConfig().String())
	h = newHarness(store)
	h.logger.opts.Storage = &hidingStorage{memStorage: store, hide: "LOG00001.BFL"}
	assertFault(t, h.logger.Boot(), FaultOpen)

	h = newHarness(newMemStorage())
	h.logger.opts.Apply = func(DeviceConfig) error { return errors.New("unsupported baud") }
	assertFault(t, h.logger.Boot(), FaultConfigParse)
}

func TestLoggerCapture(t *testing.T) {
	h := newHarness(newMemStorage())
	if err := h.logger.Boot(); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}

	data := make([]byte, 200)
	for i := range data {
		data[i] = byte(i)
	}
	h.feed(data)
	h.advance(5)

	// One block per step
	h.step(t)
	if h.logger.Written() != BlockSize {
		t.Errorf("Expected %d bytes after one step, got %d", BlockSize, h.logger.Written())
	}
	h.step(t)
	if h.logger.Written() != 200 {
		t.Errorf("Expected 200 bytes after two steps, got %d", h.logger.Written())
	}
	if !bytes.Equal(h.store.contents("LOG00001.BFL"), data) {
		t.Error("File contents differ from received bytes")
	}
	if h.led.toggles != 4 || h.led.on {
		t.Errorf("Expected activity LED toggled around 2 writes, got %d updates (on=%v)", h.led.toggles, h.led.on)
	}
	if h.logger.lastWrite != 5 {
		t.Errorf("Expected last write tick 5, got %d", h.logger.lastWrite)
	}
}

func TestLoggerRotation(t *testing.T) {
	h := newHarness(newMemStorage())
	if err := h.logger.Boot(); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}

	h.advance(10)
	h.feed([]byte("hello"))
	h.step(t)

	// Idle for exactly the threshold: no rotation yet
	h.advance(DefaultIdleTicks)
	h.step(t)
	if h.logger.FileName() != "LOG00001.BFL" {
		t.Fatalf("Rotated too early to %s", h.logger.FileName())
	}

	h.advance(1)
	h.step(t)
	if h.logger.FileName() != "LOG00002.BFL" {
		t.Fatalf("Expected rotation to LOG00002.BFL, got %s", h.logger.FileName())
	}

	// Idle again, but nothing written to the new file: no second rotation
	h.advance(5 * DefaultIdleTicks)
	for i := 0; i < 10; i++ {
		h.step(t)
	}
	if h.logger.FileName() != "LOG00002.BFL" {
		t.Errorf("Empty file must not rotate, now at %s", h.logger.FileName())
	}
	if len(h.store.created) != 3 { // config + 2 logs
		t.Errorf("Expected 3 files created, got %v", h.store.created)
	}
	if h.store.synced != 1 {
		t.Errorf("Expected one sync before close, got %d", h.store.synced)
	}

	want := []string{
		"LOG00001.BFL",
		"written 5",
		protocol.CRCLine(protocol.CRC16([]byte("hello"))),
		"LOG00002.BFL",
	}
	got := h.lines()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Status lines = %q, want %q", got, want)
	}
}

func TestLoggerNoRotationBeforeWrite(t *testing.T) {
	h := newHarness(newMemStorage())
	if err := h.logger.Boot(); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}

	for i := 0; i < 50; i++ {
		h.advance(DefaultIdleTicks)
		h.step(t)
	}
	if h.logger.FileName() != "LOG00001.BFL" {
		t.Errorf("Rotated without any write, now at %s", h.logger.FileName())
	}
}

func TestLoggerWriteAtTickZero(t *testing.T) {
	h := newHarness(newMemStorage())
	if err := h.logger.Boot(); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}

	h.feed([]byte{1})
	h.step(t)
	h.advance(DefaultIdleTicks + 2)
	h.step(t)
	if h.logger.FileName() != "LOG00002.BFL" {
		t.Errorf("Write at tick 0 never rotated, still at %s", h.logger.FileName())
	}
}

func TestLoggerFaults(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(*memStorage)
		code  FaultCode
	}{
		{name: "write", setup: func(s *memStorage) { s.writeErr = errors.New("io") }, code: FaultWrite},
		{name: "short write", setup: func(s *memStorage) { s.shortWrite = true }, code: FaultWrite},
		{name: "sync", setup: func(s *memStorage) { s.syncErr = errors.New("io") }, code: FaultSync},
		{name: "close", setup: func(s *memStorage) { s.closeErr = errors.New("io") }, code: FaultClose},
		{name: "open", setup: func(s *memStorage) { s.createErr = errors.New("full") }, code: FaultOpen},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(newMemStorage())
			if err := h.logger.Boot(); err != nil {
				t.Fatalf("Boot failed: %v", err)
			}
			tc.setup(h.store)

			h.advance(1)
			h.feed([]byte("payload"))
			err := h.logger.Step()
			if err == nil {
				h.advance(DefaultIdleTicks + 1)
				err = h.logger.Step()
			}
			assertFault(t, err, tc.code)

			if h.logger.State() != StateHalted {
				t.Errorf("Expected halted state, got %v", h.logger.State())
			}
			if h.logger.Step() == nil {
				t.Error("Step must refuse to run after a fault")
			}
		})
	}
}

func TestLoggerSequenceExhausted(t *testing.T) {
	h := newHarness(newMemStorage("LOG99999.BFL"))
	assertFault(t, h.logger.Boot(), FaultOpen)
}

func TestLoggerCardRemoved(t *testing.T) {
	h := newHarness(newMemStorage())
	present := true
	h.logger.opts.CardPresent = func() bool { return present }
	if err := h.logger.Boot(); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}

	h.step(t)
	present = false
	assertFault(t, h.logger.Step(), FaultStorageInit)
}

func TestLoggerClose(t *testing.T) {
	h := newHarness(newMemStorage())
	if err := h.logger.Boot(); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}

	h.feed(bytes.Repeat([]byte{0xAA}, 300))
	if err := h.logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if len(h.store.contents("LOG00001.BFL")) != RingSize-1 {
		t.Errorf("Expected %d bytes flushed, got %d", RingSize-1, len(h.store.contents("LOG00001.BFL")))
	}
	if h.logger.State() != StateClosed {
		t.Errorf("Expected closed state, got %v", h.logger.State())
	}
}

// TestLoggerOverload feeds 1000 bytes faster than the card drains them.
func TestLoggerOverload(t *testing.T) {
	h := newHarness(newMemStorage())
	if err := h.logger.Boot(); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}

	input := make([]byte, 1000)
	for i := range input {
		input[i] = byte(i % 251)
	}

	// 200 bytes arrive per 10ms while a step writes at most 128
	for off := 0; off < 600; off += 200 {
		h.feed(input[off : off+200])
		h.advance(1)
		h.step(t)
	}
	for !h.ring.IsEmpty() {
		h.advance(1)
		h.step(t)
	}

	// Pause longer than the idle timeout, then the second burst
	h.advance(DefaultIdleTicks + 1)
	h.step(t)
	for off := 600; off < 1000; off += 200 {
		h.feed(input[off : off+200])
		h.advance(1)
		h.step(t)
	}
	for !h.ring.IsEmpty() {
		h.advance(1)
		h.step(t)
	}

	first := h.store.contents("LOG00001.BFL")
	second := h.store.contents("LOG00002.BFL")
	written := len(first) + len(second)

	if h.ring.Dropped() == 0 {
		t.Fatal("Expected the overload to drop bytes")
	}
	if written != len(input)-int(h.ring.Dropped()) {
		t.Errorf("Written %d != received %d - dropped %d", written, len(input), h.ring.Dropped())
	}
	if len(h.store.created) != 3 {
		t.Errorf("Expected exactly one rotation, created %v", h.store.created)
	}

	// Stored bytes keep arrival order
	if !isSubsequence(append(append([]byte{}, first...), second...), input) {
		t.Error("Stored bytes are not an ordered subsequence of the input")
	}
	if !isSubsequence(first, input[:600]) || !isSubsequence(second, input[600:]) {
		t.Error("File boundary is not at the idle gap")
	}
}

func isSubsequence(sub, full []byte) bool {
	j := 0
	for i := 0; i < len(full) && j < len(sub); i++ {
		if full[i] == sub[j] {
			j++
		}
	}
	return j == len(sub)
}

// hidingStorage drops one name from directory listings
type hidingStorage struct {
	*memStorage
	hide string
}

func (s *hidingStorage) OpenDir(path string) (Dir, error) {
	d, err := s.memStorage.OpenDir(path)
	if err != nil {
		return nil, err
	}
	md := d.(*memDir)
	names := md.names[:0]
	for _, n := range md.names {
		if n != s.hide {
			names = append(names, n)
		}
	}
	md.names = names
	return md, nil
}
