package timelapse

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/timelapse-go/domain/capture"
)

// Session is the state of one capture run. It is owned by the controller and
// its run goroutine; callers only see SessionInfo snapshots.
type Session struct {
	id       string
	layout   Layout
	settings Settings

	mu     sync.Mutex
	start  time.Time
	width  int
	height int
	device capture.Device
	frames []*image.RGBA
	count  int
	video  bool // writer created by this session

	stopRequested atomic.Bool
	stopCh        chan struct{}
	stopOnce      sync.Once
}

func newSession(layout Layout, settings Settings) *Session {
	return &Session{
		id:       uuid.NewString(),
		layout:   layout,
		settings: settings,
		stopCh:   make(chan struct{}),
	}
}

// SessionInfo is a read-only snapshot of a session.
type SessionInfo struct {
	ID        string
	Sequence  int
	VideoPath string
	PhotoDir  string
	Settings  Settings
	Start     time.Time
	Width     int
	Height    int
	Frames    int
}

func (s *Session) info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		ID:        s.id,
		Sequence:  s.layout.Sequence,
		VideoPath: s.layout.VideoPath(),
		PhotoDir:  s.layout.PhotoDir(),
		Settings:  s.settings,
		Start:     s.start,
		Width:     s.width,
		Height:    s.height,
		Frames:    s.count,
	}
}

// requestStop is idempotent; the flag never reverts.
func (s *Session) requestStop() {
	s.stopOnce.Do(func() {
		s.stopRequested.Store(true)
		close(s.stopCh)
	})
}

func (s *Session) stopping() bool { return s.stopRequested.Load() }

func (s *Session) attach(dev capture.Device) {
	w, h := dev.Size()
	s.mu.Lock()
	s.device = dev
	s.width, s.height = w, h
	s.mu.Unlock()
}

// releaseDevice detaches and closes the device. Whichever of Stop and the run
// loop gets there first closes it; the other call is a no-op.
func (s *Session) releaseDevice() error {
	s.mu.Lock()
	dev := s.device
	s.device = nil
	s.mu.Unlock()
	if dev == nil {
		return nil
	}
	return dev.Close()
}

func (s *Session) markStarted(t time.Time) {
	s.mu.Lock()
	s.start = t
	s.mu.Unlock()
}

func (s *Session) startedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start
}

func (s *Session) record(frame *image.RGBA, keep bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	if keep {
		s.frames = append(s.frames, frame)
	}
}

func (s *Session) videoCreated() {
	s.mu.Lock()
	s.video = true
	s.mu.Unlock()
}

func (s *Session) ownsVideo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.video
}

func (s *Session) frameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
