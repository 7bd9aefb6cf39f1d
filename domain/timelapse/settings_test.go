package timelapse

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseSettings(t *testing.T) {
	cases := []struct {
		interval, duration string
		ok                 bool
		want               Settings
	}{
		{"5", "30", true, Settings{Interval: 5 * time.Second, Duration: 30 * time.Second}},
		{" 2 ", "\t60\n", true, Settings{Interval: 2 * time.Second, Duration: 60 * time.Second}},
		{"abc", "30", false, Settings{}},
		{"5", "", false, Settings{}},
		{"0", "30", false, Settings{}},
		{"5", "-1", false, Settings{}},
		{"1.5", "30", false, Settings{}},
	}
	for _, tc := range cases {
		got, err := ParseSettings(tc.interval, tc.duration)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("ParseSettings(%q,%q) = %+v, %v; want %+v", tc.interval, tc.duration, got, err, tc.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidSettings) {
			t.Fatalf("ParseSettings(%q,%q) expected ErrInvalidSettings, got %v", tc.interval, tc.duration, err)
		}
	}
}

func TestParseSettings_RejectsSecondsBeyondDurationRange(t *testing.T) {
	for _, text := range []string{"9300000000", "9223372036854775807"} {
		_, err := ParseSettings("1", text)
		if !errors.Is(err, ErrInvalidSettings) {
			t.Fatalf("ParseSettings(1, %s) expected ErrInvalidSettings, got %v", text, err)
		}
		if !strings.Contains(err.Error(), "at most") {
			t.Fatalf("expected a range message, got %q", err)
		}
	}
	if _, err := SettingsFromSeconds(1, 9_300_000_000); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("SettingsFromSeconds should reject overflow, got %v", err)
	}
	if _, err := ParseSettings("1", "9223372036"); err != nil {
		t.Fatalf("largest representable duration should parse: %v", err)
	}
}

func TestSettings_ExpectedFrames(t *testing.T) {
	cases := []struct{ interval, duration, want int }{
		{1, 10, 10},
		{3, 10, 4},
		{5, 10, 2},
		{20, 10, 1},
	}
	for _, tc := range cases {
		s, err := SettingsFromSeconds(tc.interval, tc.duration)
		if err != nil {
			t.Fatalf("settings: %v", err)
		}
		if got := s.ExpectedFrames(); got != tc.want {
			t.Fatalf("ExpectedFrames(%d,%d) = %d, want %d", tc.interval, tc.duration, got, tc.want)
		}
	}
}

func TestLayout_Names(t *testing.T) {
	l := Layout{Root: "media", Sequence: 7}
	if l.VideoPath() != filepath.Join("media", "7_video.avi") {
		t.Fatalf("video path %s", l.VideoPath())
	}
	if l.PhotoPath(12) != filepath.Join("media", "7_photos", "Photo_12.jpg") {
		t.Fatalf("photo path %s", l.PhotoPath(12))
	}
}

func TestNextSequence(t *testing.T) {
	root := t.TempDir()
	if seq, err := NextSequence(filepath.Join(root, "missing")); err != nil || seq != 1 {
		t.Fatalf("missing root: %d, %v", seq, err)
	}
	for _, name := range []string{"1_video.avi", "2_video.avi", "notes.txt", "3_video.mp4"} {
		if err := os.WriteFile(filepath.Join(root, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Directories never count, even with a matching name.
	if err := os.Mkdir(filepath.Join(root, "9_video.avi"), 0o755); err != nil {
		t.Fatal(err)
	}
	if seq, err := NextSequence(root); err != nil || seq != 3 {
		t.Fatalf("NextSequence = %d, %v; want 3", seq, err)
	}
}

func TestPrepareLayout_CreatesPhotoDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "media")
	l, err := PrepareLayout(root)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if l.Sequence != 1 {
		t.Fatalf("sequence %d", l.Sequence)
	}
	if fi, err := os.Stat(l.PhotoDir()); err != nil || !fi.IsDir() {
		t.Fatalf("photo dir missing: %v", err)
	}
}
