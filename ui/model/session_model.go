package model

import (
	"time"
)

// SessionModel tracks the elapsed time of the running session and the time
// accumulated by finished sessions. Presenters poll Values() and update views.
// The zero value is ready to use.
type SessionModel struct {
	active      bool
	elapsed     time.Duration
	accumulated time.Duration
	sessions    int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model from the controller's running flag and elapsed
// capture time. Call periodically (for example, from a presenter tick).
func (m *SessionModel) OnTick(running bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	if running {
		if !m.active { // transition off -> on
			m.active = true
			m.sessions++
		}
		if elapsed >= m.elapsed {
			m.elapsed = elapsed
		}
		return
	}
	if m.active { // transition on -> off
		m.accumulated += m.elapsed
		m.active = false
	}
	m.elapsed = 0
}

// Values returns the current session elapsed time (zero when idle) and the
// total recorded time including the running session.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.elapsed
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}

// Sessions returns how many sessions have been observed.
func (m *SessionModel) Sessions() int {
	if m == nil {
		return 0
	}
	return m.sessions
}
