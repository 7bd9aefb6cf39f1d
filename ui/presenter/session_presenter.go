package presenter

import (
	"time"

	"github.com/soocke/timelapse-go/ui/model"
)

// ElapsedSource reports whether a session runs and its elapsed capture time.
type ElapsedSource interface {
	Active() bool
	Elapsed() time.Duration
}

// SessionView displays elapsed session and total recorded durations.
type SessionView interface {
	SetSession(session, total time.Duration)
}

// SessionPresenter formats session and total durations from the model to the view.
type SessionPresenter struct {
	sess *model.SessionModel
	src  ElapsedSource
	view SessionView

	shownSession time.Duration
	shownTotal   time.Duration
	shown        bool
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, src ElapsedSource, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, src: src, view: view}
}

// Tick advances the session model and pushes values to the view. Values have
// whole-second resolution, so the view changes at most once per second.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.src == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.src.Active(), p.src.Elapsed())
	s, t := p.sess.Values()
	s, t = s.Truncate(time.Second), t.Truncate(time.Second)
	if p.shown && s == p.shownSession && t == p.shownTotal {
		return
	}
	p.shown = true
	p.shownSession, p.shownTotal = s, t
	p.view.SetSession(s, t)
}
