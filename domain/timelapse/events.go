package timelapse

import "time"

// EventKind classifies controller notifications.
type EventKind int

const (
	EventStarted EventKind = iota
	EventFrameCaptured
	EventFinished
	EventStopped
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "Started"
	case EventFrameCaptured:
		return "FrameCaptured"
	case EventFinished:
		return "Finished"
	case EventStopped:
		return "Stopped"
	case EventFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the session is over after this event.
func (k EventKind) Terminal() bool {
	return k == EventFinished || k == EventStopped || k == EventFailed
}

// Event is posted by the run goroutine and drained by the UI loop.
type Event struct {
	Kind    EventKind
	Session SessionInfo
	Elapsed time.Duration
	Photo   string
	Err     error
}
