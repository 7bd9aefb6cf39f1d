package timelapse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/soocke/timelapse-go/domain/capture"
)

const eventBuffer = 64

// Options configures where and how sessions are written.
type Options struct {
	Root        string        // output root, "media" by default
	Codec       string        // fourcc, "XVID" by default
	FPS         float64       // nominal video rate, 1 by default
	SettleDelay time.Duration // wait after each device open attempt
	KeepFrames  bool          // retain captured frames in memory for the session
}

func (o Options) withDefaults() Options {
	if o.Root == "" {
		o.Root = "media"
	}
	if o.Codec == "" {
		o.Codec = "XVID"
	}
	if o.FPS <= 0 {
		o.FPS = 1
	}
	if o.SettleDelay < 0 {
		o.SettleDelay = 0
	}
	return o
}

// Controller runs one bounded-duration, fixed-interval capture session at a
// time. Sessions run on their own goroutine; progress is reported on Events.
type Controller struct {
	opener  capture.Opener
	writers capture.WriterFactory
	photos  capture.PhotoWriter
	logger  *slog.Logger
	opts    Options
	clock   Clock

	mu       sync.Mutex
	settings Settings
	current  *Session
	wg       sync.WaitGroup

	events chan Event
}

// NewController wires a controller. photos may be nil to use the JPEG writer.
func NewController(logger *slog.Logger, opener capture.Opener, writers capture.WriterFactory, photos capture.PhotoWriter, settings Settings, opts Options) *Controller {
	if photos == nil {
		photos = capture.JPEGWriter{}
	}
	if settings.Validate() != nil {
		settings = DefaultSettings()
	}
	return &Controller{
		opener:   opener,
		writers:  writers,
		photos:   photos,
		logger:   logger,
		opts:     opts.withDefaults(),
		clock:    realClock{},
		settings: settings,
		events:   make(chan Event, eventBuffer),
	}
}

// SetClock replaces the clock used by subsequent sessions.
func (c *Controller) SetClock(clk Clock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if clk != nil {
		c.clock = clk
	}
}

// Events delivers session notifications. Progress events are dropped when the
// consumer falls behind; terminal events always get through.
func (c *Controller) Events() <-chan Event { return c.events }

// Settings returns the settings the next session will use.
func (c *Controller) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// UpdateSettings parses and stores new settings for the next session. On
// failure the previous settings are kept and the error wraps ErrInvalidSettings.
func (c *Controller) UpdateSettings(intervalText, durationText string) (Settings, error) {
	s, err := ParseSettings(intervalText, durationText)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("invalid input for settings", "error", err)
		}
		return c.Settings(), err
	}
	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()
	if c.logger != nil {
		c.logger.Info("settings updated", "interval", s.Interval, "duration", s.Duration)
	}
	return s, nil
}

// Active reports whether a session is running.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// Current returns a snapshot of the running session.
func (c *Controller) Current() (SessionInfo, bool) {
	c.mu.Lock()
	s := c.current
	c.mu.Unlock()
	if s == nil {
		return SessionInfo{}, false
	}
	return s.info(), true
}

// Elapsed returns whole seconds since the running session started capturing.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	s, clk := c.current, c.clock
	c.mu.Unlock()
	if s == nil {
		return 0
	}
	start := s.startedAt()
	if start.IsZero() {
		return 0
	}
	return clk.Now().Sub(start).Truncate(time.Second)
}

// Start prepares the output layout and launches a session on candidates, tried
// in order. It returns once the session goroutine is running; device and
// capture failures are reported as EventFailed. Every event of the session
// carries the returned ID.
func (c *Controller) Start(ctx context.Context, candidates []int) (SessionInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		return SessionInfo{}, ErrSessionActive
	}
	if len(candidates) == 0 {
		return SessionInfo{}, fmt.Errorf("%w: no camera indices configured", ErrDeviceUnavailable)
	}
	begin := time.Now()
	layout, err := PrepareLayout(c.opts.Root)
	if err != nil {
		return SessionInfo{}, err
	}
	if fileExists(layout.VideoPath()) && c.logger != nil {
		c.logger.Warn("video for sequence already exists and will be overwritten", "video", layout.VideoPath())
	}
	if c.logger != nil {
		c.logger.Info("media setup completed", "sequence", layout.Sequence, "photos", layout.PhotoDir(), "took", time.Since(begin))
	}
	s := newSession(layout, c.settings)
	c.current = s
	clk := c.clock
	idx := append([]int(nil), candidates...)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if c.logger != nil {
				c.logger.Error("session panic", "error", r, "stack", string(debug.Stack()))
			}
			_ = s.releaseDevice()
			c.mu.Lock()
			if c.current == s {
				c.current = nil
			}
			c.mu.Unlock()
			c.post(Event{Kind: EventFailed, Session: s.info(), Err: fmt.Errorf("session panic: %v", r)})
		}()
		c.run(ctx, s, clk, idx)
	}()
	return s.info(), nil
}

// Stop requests the running session to end and releases its device. It is
// safe to call at any time and more than once.
func (c *Controller) Stop() {
	c.mu.Lock()
	s := c.current
	c.mu.Unlock()
	if s == nil {
		return
	}
	if !s.stopping() && c.logger != nil {
		c.logger.Info("timelapse stopped manually", "session", s.id)
	}
	s.requestStop()
	if err := s.releaseDevice(); err != nil && c.logger != nil {
		c.logger.Warn("release device", "session", s.id, "error", err)
	}
}

// Wait blocks until every launched session goroutine has returned.
func (c *Controller) Wait() { c.wg.Wait() }

func (c *Controller) run(ctx context.Context, s *Session, clk Clock, candidates []int) {
	kind, err := c.capture(ctx, s, clk, candidates)
	if rerr := s.releaseDevice(); rerr != nil && c.logger != nil {
		c.logger.Warn("release device", "session", s.id, "error", rerr)
	}
	if s.frameCount() == 0 {
		s.layout.discardEmpty(s.ownsVideo())
	}

	c.mu.Lock()
	if c.current == s {
		c.current = nil
	}
	c.mu.Unlock()

	info := s.info()
	var elapsed time.Duration
	if !info.Start.IsZero() {
		elapsed = clk.Now().Sub(info.Start).Truncate(time.Second)
	}
	if c.logger != nil {
		switch kind {
		case EventFinished:
			c.logger.Info("timelapse saved", "session", s.id, "video", info.VideoPath, "frames", info.Frames)
		case EventStopped:
			c.logger.Info("timelapse ended early", "session", s.id, "frames", info.Frames)
		default:
			c.logger.Error("timelapse failed", "session", s.id, "frames", info.Frames, "error", err)
		}
	}
	c.post(Event{Kind: kind, Session: info, Elapsed: elapsed, Err: err})
}

// capture opens the device and runs the sample loop. Every return path leaves
// the video writer closed; the caller releases the device.
func (c *Controller) capture(ctx context.Context, s *Session, clk Clock, candidates []int) (EventKind, error) {
	dev, err := c.openFirst(ctx, s, clk, candidates)
	if err != nil {
		if s.stopping() || ctx.Err() != nil {
			return EventStopped, nil
		}
		return EventFailed, err
	}
	s.attach(dev)
	if s.stopping() {
		return EventStopped, nil
	}

	w, h := dev.Size()
	if c.logger != nil {
		c.logger.Info("frame size", "session", s.id, "width", w, "height", h)
	}
	vw, err := c.writers.Create(capture.VideoSpec{
		Path:   s.layout.VideoPath(),
		Codec:  c.opts.Codec,
		FPS:    c.opts.FPS,
		Width:  w,
		Height: h,
		Color:  true,
	})
	if err != nil {
		return EventFailed, err
	}
	s.videoCreated()
	defer func() {
		if cerr := vw.Close(); cerr != nil && c.logger != nil {
			c.logger.Warn("close video writer", "session", s.id, "error", cerr)
		}
	}()

	start := clk.Now()
	s.markStarted(start)
	if c.logger != nil {
		c.logger.Info("starting timelapse", "session", s.id, "interval", s.settings.Interval, "duration", s.settings.Duration, "video", s.layout.VideoPath())
	}
	c.post(Event{Kind: EventStarted, Session: s.info()})

	lastSecs := -1
	for {
		if s.stopping() || ctx.Err() != nil {
			return EventStopped, nil
		}
		iterStart := clk.Now()
		if iterStart.Sub(start) >= s.settings.Duration {
			return EventFinished, nil
		}

		frame, err := dev.Read()
		if err != nil {
			if s.stopping() || errors.Is(err, capture.ErrDeviceClosed) {
				return EventStopped, nil
			}
			return EventFailed, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
		}

		// Labelled at the tick; seconds strictly increase even when a read is slow.
		secs := int(iterStart.Sub(start) / time.Second)
		if secs <= lastSecs {
			secs = lastSecs + 1
		}
		lastSecs = secs
		capture.Annotate(frame, capture.ElapsedLabel(secs))
		photo := s.layout.PhotoPath(secs)
		if err := c.photos.WritePhoto(photo, frame); err != nil {
			return EventFailed, err
		}
		s.record(frame, c.opts.KeepFrames)
		if err := vw.Write(frame); err != nil {
			return EventFailed, fmt.Errorf("write video frame: %w", err)
		}
		if c.logger != nil {
			c.logger.Info("captured frame", "session", s.id, "elapsed", secs)
		}
		c.post(Event{Kind: EventFrameCaptured, Session: s.info(), Elapsed: time.Duration(secs) * time.Second, Photo: photo})

		// Sleep once to the next tick boundary.
		if wait := iterStart.Add(s.settings.Interval).Sub(clk.Now()); wait > 0 {
			select {
			case <-clk.After(wait):
			case <-s.stopCh:
				return EventStopped, nil
			case <-ctx.Done():
				return EventStopped, nil
			}
		}
	}
}

// openFirst tries each candidate index once, waiting the settle delay after
// every attempt.
func (c *Controller) openFirst(ctx context.Context, s *Session, clk Clock, candidates []int) (capture.Device, error) {
	var errs []error
	for _, idx := range candidates {
		if s.stopping() || ctx.Err() != nil {
			return nil, context.Canceled
		}
		if c.logger != nil {
			c.logger.Info("trying to initialize camera", "session", s.id, "index", idx)
		}
		dev, err := c.opener.Open(idx)
		if c.opts.SettleDelay > 0 {
			select {
			case <-clk.After(c.opts.SettleDelay):
			case <-s.stopCh:
			case <-ctx.Done():
			}
		}
		if err == nil {
			return dev, nil
		}
		if c.logger != nil {
			c.logger.Warn("camera not available", "session", s.id, "index", idx, "error", err)
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, errors.Join(errs...))
}

// post delivers ev without blocking the run goroutine. When the buffer is
// full the oldest event is discarded.
func (c *Controller) post(ev Event) {
	for {
		select {
		case c.events <- ev:
			return
		default:
		}
		select {
		case <-c.events:
		default:
		}
	}
}
