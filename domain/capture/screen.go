package capture

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/vova616/screenshot"
)

// ScreenOpener opens the primary display as a frame source. The index is
// accepted for interface compatibility; only index 0 is available.
type ScreenOpener struct{}

func (ScreenOpener) Open(index int) (Device, error) {
	if index != 0 {
		return nil, fmt.Errorf("open screen %d: only display 0 is supported", index)
	}
	r, err := screenshot.ScreenRect()
	if err != nil {
		return nil, fmt.Errorf("open screen: %w", err)
	}
	if r.Empty() {
		return nil, fmt.Errorf("open screen: empty display rectangle")
	}
	return &screen{rect: r}, nil
}

type screen struct {
	rect   image.Rectangle
	closed atomic.Bool
}

func (s *screen) Size() (int, int) { return s.rect.Dx(), s.rect.Dy() }

// Read returns a capture of the primary display.
func (s *screen) Read() (*image.RGBA, error) {
	if s.closed.Load() {
		return nil, ErrDeviceClosed
	}
	img, err := screenshot.CaptureRect(s.rect)
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	return img, nil
}

func (s *screen) Close() error {
	s.closed.Store(true)
	return nil
}
