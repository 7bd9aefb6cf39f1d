package timelapse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const videoSuffix = "_video.avi"

// Layout names the files of one session inside the output root.
type Layout struct {
	Root     string
	Sequence int
}

// VideoPath is {root}/{seq}_video.avi.
func (l Layout) VideoPath() string {
	return filepath.Join(l.Root, fmt.Sprintf("%d%s", l.Sequence, videoSuffix))
}

// PhotoDir is {root}/{seq}_photos.
func (l Layout) PhotoDir() string {
	return filepath.Join(l.Root, fmt.Sprintf("%d_photos", l.Sequence))
}

// PhotoPath is {photoDir}/Photo_{elapsed}.jpg.
func (l Layout) PhotoPath(elapsedSeconds int) string {
	return filepath.Join(l.PhotoDir(), PhotoName(elapsedSeconds))
}

// PhotoName is the file name for the frame taken at elapsedSeconds.
func PhotoName(elapsedSeconds int) string {
	return fmt.Sprintf("Photo_%d.jpg", elapsedSeconds)
}

// NextSequence returns the number of existing videos in root plus one.
// Gaps left by deleted videos are not filled, so ids can repeat once files
// are removed out of order. A missing root counts as empty.
func NextSequence(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, fmt.Errorf("scan %s: %w", root, err)
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), videoSuffix) {
			count++
		}
	}
	return count + 1, nil
}

// PrepareLayout creates root and the photo directory for the next sequence.
func PrepareLayout(root string) (Layout, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return Layout{}, fmt.Errorf("create media root: %w", err)
	}
	seq, err := NextSequence(root)
	if err != nil {
		return Layout{}, err
	}
	l := Layout{Root: root, Sequence: seq}
	if err := os.MkdirAll(l.PhotoDir(), 0o755); err != nil {
		return Layout{}, fmt.Errorf("create photo dir: %w", err)
	}
	return l, nil
}

// discardEmpty removes the session's artifacts when no frame was captured.
// The video is only removed when this session created it and the photo
// directory only when empty, so files of an earlier run with the same
// sequence survive.
func (l Layout) discardEmpty(createdVideo bool) {
	if createdVideo {
		_ = os.Remove(l.VideoPath())
	}
	_ = os.Remove(l.PhotoDir())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
