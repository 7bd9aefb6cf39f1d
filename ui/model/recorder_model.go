package model

import (
	"sync/atomic"
)

// RecorderModel tracks whether a recording session and the preview feed are
// running. The zero value is idle and usable.
// Concurrency-safe via atomic Bool because UI callbacks and presenter ticks may race.
type RecorderModel struct {
	recording atomic.Bool
	preview   atomic.Bool
}

// Recording reports whether a session is in progress.
func (m *RecorderModel) Recording() bool {
	if m == nil {
		return false
	}
	return m.recording.Load()
}

// SetRecording stores the recording flag.
func (m *RecorderModel) SetRecording(b bool) {
	if m == nil {
		return
	}
	m.recording.Store(b)
}

// Previewing reports whether the live feed is shown.
func (m *RecorderModel) Previewing() bool {
	if m == nil {
		return false
	}
	return m.preview.Load()
}

// SetPreviewing stores the preview flag.
func (m *RecorderModel) SetPreviewing(b bool) {
	if m == nil {
		return
	}
	m.preview.Store(b)
}
