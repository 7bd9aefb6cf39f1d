package presenter

import (
	"time"

	"github.com/soocke/timelapse-go/domain/timelapse"
)

// maxEventsPerTick bounds how many controller events one tick applies so a
// burst cannot stall the UI thread.
const maxEventsPerTick = 32

// Loop aggregates feature presenters and drives periodic updates.
//
// It drains controller events, calls Tick/ProcessFrame on the sub-presenters
// and invokes a scheduler callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Events    <-chan timelapse.Event
	Timelapse *TimelapsePresenter
	Session   *SessionPresenter
	Preview   *PreviewPresenter
	Schedule  func()
}

func NewLoop(events <-chan timelapse.Event, tl *TimelapsePresenter, sess *SessionPresenter, preview *PreviewPresenter, schedule func()) *Loop {
	return &Loop{Events: events, Timelapse: tl, Session: sess, Preview: preview, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	l.drain()
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Preview != nil {
		l.Preview.ProcessFrame()
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}

func (l *Loop) drain() {
	if l.Events == nil {
		return
	}
	for i := 0; i < maxEventsPerTick; i++ {
		select {
		case ev := <-l.Events:
			if l.Timelapse != nil {
				l.Timelapse.HandleEvent(ev)
			}
		default:
			return
		}
	}
}
