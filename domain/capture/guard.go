package capture

import (
	"errors"
	"sync"
)

// ErrReadInProgress is returned when a second reader enters a guarded device.
var ErrReadInProgress = errors.New("device: read already in progress")

// ReleaseGuard pairs one reader with Close so that Close never waits for a
// blocking read. When Close arrives mid-read the release is left to the
// reader, which runs it as soon as its read returns.
type ReleaseGuard struct {
	mu       sync.Mutex
	reading  bool
	closed   bool
	released bool
	release  func() error
}

// NewReleaseGuard returns a guard that calls release exactly once.
func NewReleaseGuard(release func() error) *ReleaseGuard {
	return &ReleaseGuard{release: release}
}

// BeginRead marks a read in flight. It fails with ErrDeviceClosed once
// Close was called.
func (g *ReleaseGuard) BeginRead() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrDeviceClosed
	}
	if g.reading {
		return ErrReadInProgress
	}
	g.reading = true
	return nil
}

// EndRead ends the read started by BeginRead. It reports ErrDeviceClosed,
// after releasing, when Close was called while the read was in flight.
func (g *ReleaseGuard) EndRead() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reading = false
	if !g.closed {
		return nil
	}
	if err := g.releaseLocked(); err != nil {
		return err
	}
	return ErrDeviceClosed
}

// Close marks the device closed. It releases immediately unless a read is
// in flight. Repeated calls are no-ops.
func (g *ReleaseGuard) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	if g.reading {
		return nil
	}
	return g.releaseLocked()
}

func (g *ReleaseGuard) releaseLocked() error {
	if g.released || g.release == nil {
		return nil
	}
	g.released = true
	return g.release()
}
