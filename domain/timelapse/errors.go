package timelapse

import "errors"

var (
	// ErrDeviceUnavailable reports that no candidate device index could be opened.
	ErrDeviceUnavailable = errors.New("no available camera found")
	// ErrCaptureFailed reports a frame read failure in the middle of a session.
	ErrCaptureFailed = errors.New("failed to capture frame")
	// ErrInvalidSettings reports malformed interval or duration input.
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrSessionActive is returned by Start while another session runs.
	ErrSessionActive = errors.New("session already active")
)
