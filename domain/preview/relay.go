// Package preview relays live frames from a capture device to the display.
// The relay opens its own device handle, independent of any recording
// session, and keeps only the latest frame for the UI tick to pick up.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/timelapse-go/domain/capture"
)

const (
	// DefaultPace gives roughly 30 reads per second.
	DefaultPace      = 33 * time.Millisecond
	statsLogInterval = 5 * time.Second
)

// Relay pulls frames from a device and exposes the freshest one. Use
// NewRelay to construct an instance.
type Relay interface {
	Start(ctx context.Context, index int)
	Stop()
	Wait()
	LatestFrame() capture.FrameSnapshot
	Running() bool
	Err() error
	Stats() Stats
}

type relay struct {
	opener capture.Opener
	logger *slog.Logger
	pace   time.Duration

	mu   sync.Mutex
	cur  *run // nil once stopped
	last *run // most recently started, kept for Err
	wg   sync.WaitGroup

	latest    atomic.Pointer[capture.FrameSnapshot]
	frames    atomic.Uint64
	readNanos atomic.Uint64
	sequence  atomic.Uint64
}

// run is the state of one Start. A stopped run keeps draining on its own
// goroutine without touching the relay's current state.
type run struct {
	cancel context.CancelFunc
	device capture.Device
	err    error
	ended  atomic.Bool
}

// NewRelay returns a stopped relay. A non-positive pace uses DefaultPace.
func NewRelay(logger *slog.Logger, opener capture.Opener, pace time.Duration) Relay {
	if pace <= 0 {
		pace = DefaultPace
	}
	return &relay{opener: opener, logger: logger, pace: pace}
}

func (r *relay) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cur != nil && !r.cur.ended.Load()
}

func (r *relay) LatestFrame() capture.FrameSnapshot {
	snap := r.latest.Load()
	if snap == nil {
		return capture.FrameSnapshot{}
	}
	return *snap
}

// Err returns the error that ended the last run, if any.
func (r *relay) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return nil
	}
	return r.last.err
}

func (r *relay) Stats() Stats {
	frames := r.frames.Load()
	total := r.readNanos.Load()
	var avg time.Duration
	if frames > 0 {
		avg = time.Duration(total / frames)
	}
	snap := r.LatestFrame()
	age := time.Duration(0)
	if !snap.CapturedAt.IsZero() {
		age = time.Since(snap.CapturedAt)
	}
	return Stats{
		Frames:         frames,
		AvgRead:        avg,
		LastFrame:      snap.CapturedAt,
		LatestFrameAge: age,
		Sequence:       snap.Sequence,
	}
}

// Start opens the device in the background and begins relaying. Calling
// Start while running is a no-op. A run that was stopped but has not
// finished yet does not block a new one.
func (r *relay) Start(ctx context.Context, index int) {
	r.mu.Lock()
	if r.cur != nil && !r.cur.ended.Load() {
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	ru := &run{cancel: cancel}
	r.cur, r.last = ru, ru
	r.wg.Add(1)
	r.mu.Unlock()
	go func() {
		defer r.wg.Done()
		defer ru.ended.Store(true)
		defer cancel()
		r.loop(ctx, ru, index)
	}()
}

// Stop cancels the current run and releases its device. It does not wait
// for a read in flight. Safe to call when not running.
func (r *relay) Stop() {
	r.mu.Lock()
	ru := r.cur
	r.cur = nil
	var dev capture.Device
	if ru != nil {
		dev = ru.device
		ru.device = nil
	}
	r.mu.Unlock()
	if ru == nil {
		return
	}
	ru.cancel()
	if dev != nil {
		_ = dev.Close()
	}
}

// Wait blocks until every started run has ended.
func (r *relay) Wait() { r.wg.Wait() }

func (r *relay) fail(ru *run, err error) {
	r.mu.Lock()
	ru.err = err
	r.mu.Unlock()
	if r.logger != nil {
		r.logger.Error("preview feed stopped", "error", err)
	}
}

func (r *relay) current(ru *run) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cur == ru
}

func (r *relay) loop(ctx context.Context, ru *run, index int) {
	dev, err := r.opener.Open(index)
	if err != nil {
		r.fail(ru, fmt.Errorf("failed to initialize the camera: %w", err))
		return
	}
	r.mu.Lock()
	if ctx.Err() != nil {
		r.mu.Unlock()
		_ = dev.Close()
		return
	}
	ru.device = dev
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		d := ru.device
		ru.device = nil
		r.mu.Unlock()
		if d != nil {
			_ = d.Close()
		}
	}()
	if r.logger != nil {
		r.logger.Info("preview feed started", "index", index)
	}

	logTicker := time.NewTicker(statsLogInterval)
	defer logTicker.Stop()
	pace := time.NewTimer(r.pace)
	defer pace.Stop()
	for {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		img, err := dev.Read()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.fail(ru, fmt.Errorf("failed to capture frame: %w", err))
			return
		}
		// A stopped run may still finish one read; its frame is dropped.
		if !r.current(ru) {
			return
		}
		r.readNanos.Add(uint64(time.Since(start).Nanoseconds()))
		r.frames.Add(1)
		seq := r.sequence.Add(1)
		r.latest.Store(&capture.FrameSnapshot{Image: img, CapturedAt: time.Now(), Sequence: seq})

		select {
		case <-logTicker.C:
			r.logStats()
		default:
		}

		pace.Reset(r.pace)
		select {
		case <-ctx.Done():
			return
		case <-pace.C:
		}
	}
}

func (r *relay) logStats() {
	if r.logger == nil {
		return
	}
	stats := r.Stats()
	r.logger.Debug("preview.stats",
		"frames", stats.Frames,
		"avg_read", stats.AvgRead,
		"age", stats.LatestFrameAge,
	)
}
