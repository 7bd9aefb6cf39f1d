// Package opencv backs the capture interfaces with OpenCV through gocv:
// camera devices for reading and video writers for the assembled container.
package opencv

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/soocke/timelapse-go/domain/capture"
)

// Backend names accepted by ParseAPI.
const (
	BackendAny   = "any"
	BackendDShow = "dshow"
	BackendV4L2  = "v4l2"
)

// ParseAPI maps a configured backend name to a gocv capture API. Unknown
// names fall back to auto selection.
func ParseAPI(name string) gocv.VideoCaptureAPI {
	switch name {
	case BackendDShow:
		return gocv.VideoCaptureDshow
	case BackendV4L2:
		return gocv.VideoCaptureV4L2
	default:
		return gocv.VideoCaptureAny
	}
}

// CameraOpener opens OpenCV video capture devices by index.
type CameraOpener struct {
	API    gocv.VideoCaptureAPI
	Logger *slog.Logger
}

// NewCameraOpener returns an opener using the given backend.
func NewCameraOpener(api gocv.VideoCaptureAPI, logger *slog.Logger) *CameraOpener {
	return &CameraOpener{API: api, Logger: logger}
}

// Open opens camera index. A handle that reports not opened is closed and
// reported as an error.
func (o *CameraOpener) Open(index int) (capture.Device, error) {
	vc, err := gocv.OpenVideoCaptureWithAPI(index, o.API)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", index, err)
	}
	if !vc.IsOpened() {
		_ = vc.Close()
		return nil, fmt.Errorf("open camera %d: not opened", index)
	}
	c := &camera{vc: vc, mat: gocv.NewMat(), index: index}
	c.guard = capture.NewReleaseGuard(c.release)
	c.width = int(vc.Get(gocv.VideoCaptureFrameWidth))
	c.height = int(vc.Get(gocv.VideoCaptureFrameHeight))
	if o.Logger != nil {
		o.Logger.Info("camera opened", "index", index, "width", c.width, "height", c.height)
	}
	return c, nil
}

// camera is read by one goroutine. Close may come from any goroutine and
// never waits for a blocking vc.Read; the reader frees the handle instead.
type camera struct {
	guard  *capture.ReleaseGuard
	vc     *gocv.VideoCapture
	mat    gocv.Mat
	index  int
	width  int
	height int
}

func (c *camera) Size() (int, int) { return c.width, c.height }

func (c *camera) Read() (*image.RGBA, error) {
	if err := c.guard.BeginRead(); err != nil {
		return nil, err
	}
	img, rerr := c.read()
	if err := c.guard.EndRead(); err != nil {
		return nil, err
	}
	return img, rerr
}

func (c *camera) read() (*image.RGBA, error) {
	if ok := c.vc.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, fmt.Errorf("camera %d: read failed", c.index)
	}
	img, err := c.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("camera %d: convert frame: %w", c.index, err)
	}
	return toRGBA(img), nil
}

func (c *camera) Close() error { return c.guard.Close() }

func (c *camera) release() error {
	_ = c.mat.Close()
	return c.vc.Close()
}

// toRGBA returns img as *image.RGBA, copying only when needed.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// WriterFactory creates OpenCV video writers.
type WriterFactory struct{}

func (WriterFactory) Create(spec capture.VideoSpec) (capture.VideoWriter, error) {
	vw, err := gocv.VideoWriterFile(spec.Path, spec.Codec, spec.FPS, spec.Width, spec.Height, spec.Color)
	if err != nil {
		return nil, fmt.Errorf("open video writer %s: %w", spec.Path, err)
	}
	if !vw.IsOpened() {
		_ = vw.Close()
		return nil, fmt.Errorf("open video writer %s: codec %q rejected", spec.Path, spec.Codec)
	}
	return &videoWriter{vw: vw, width: spec.Width, height: spec.Height}, nil
}

type videoWriter struct {
	vw     *gocv.VideoWriter
	width  int
	height int
}

func (w *videoWriter) Write(frame image.Image) error {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return fmt.Errorf("frame to mat: %w", err)
	}
	defer mat.Close()
	// Frames whose size differs from the container are dropped by some codecs.
	if mat.Cols() != w.width || mat.Rows() != w.height {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(mat, &resized, image.Pt(w.width, w.height), 0, 0, gocv.InterpolationLinear)
		return w.vw.Write(resized)
	}
	return w.vw.Write(mat)
}

func (w *videoWriter) Close() error { return w.vw.Close() }
