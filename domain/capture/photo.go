package capture

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// JPEGWriter saves frames as JPEG files. The format is chosen from the file
// extension, so ".png" paths work as well.
type JPEGWriter struct {
	Quality int
}

func (w JPEGWriter) WritePhoto(path string, frame image.Image) error {
	q := w.Quality
	if q <= 0 || q > 100 {
		q = 95
	}
	if err := imaging.Save(frame, path, imaging.JPEGQuality(q)); err != nil {
		return fmt.Errorf("save photo %s: %w", path, err)
	}
	return nil
}
