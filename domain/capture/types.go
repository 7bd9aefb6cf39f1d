package capture

import (
	"errors"
	"image"
	"time"
)

// ErrDeviceClosed is returned by Read on a handle that has been released.
var ErrDeviceClosed = errors.New("capture device closed")

// Device is an open frame source (camera or screen). Each consumer opens its
// own handle; handles are not shared between goroutines except for Close,
// which must be safe to call concurrently with Read and more than once.
type Device interface {
	Read() (*image.RGBA, error)
	Size() (width, height int)
	Close() error
}

// Opener opens a device by index. Implementations return an error when the
// index cannot be opened.
type Opener interface {
	Open(index int) (Device, error)
}

// OpenerFunc adapts a plain function to Opener.
type OpenerFunc func(index int) (Device, error)

func (f OpenerFunc) Open(index int) (Device, error) { return f(index) }

// VideoWriter appends frames to an encoded video container.
type VideoWriter interface {
	Write(frame image.Image) error
	Close() error
}

// VideoSpec describes the container a WriterFactory should create.
type VideoSpec struct {
	Path   string
	Codec  string
	FPS    float64
	Width  int
	Height int
	Color  bool
}

// WriterFactory opens a VideoWriter for spec.
type WriterFactory interface {
	Create(spec VideoSpec) (VideoWriter, error)
}

// WriterFactoryFunc adapts a plain function to WriterFactory.
type WriterFactoryFunc func(spec VideoSpec) (VideoWriter, error)

func (f WriterFactoryFunc) Create(spec VideoSpec) (VideoWriter, error) { return f(spec) }

// PhotoWriter persists single annotated frames.
type PhotoWriter interface {
	WritePhoto(path string, frame image.Image) error
}

// FrameSnapshot carries the latest captured frame and metadata.
type FrameSnapshot struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}
