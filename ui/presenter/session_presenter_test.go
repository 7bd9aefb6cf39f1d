package presenter

import (
	"testing"
	"time"

	"github.com/soocke/timelapse-go/domain/timelapse"
	"github.com/soocke/timelapse-go/ui/model"
)

type mockSessionView struct {
	calls          int
	session, total time.Duration
}

func (v *mockSessionView) SetSession(s, t time.Duration) { v.calls++; v.session, v.total = s, t }

func TestSessionPresenter_UpdatesOncePerSecond(t *testing.T) {
	ctl := &mockController{}
	v := &mockSessionView{}
	p := NewSessionPresenter(model.NewSessionModel(), ctl, v)
	now := time.Now()

	p.Tick(now)
	if v.calls != 1 || v.session != 0 {
		t.Fatalf("first tick should render zero, calls=%d", v.calls)
	}
	ctl.active = true
	ctl.elapsed = 0
	p.Tick(now)
	p.Tick(now)
	if v.calls != 1 {
		t.Fatalf("unchanged values should not re-render, calls=%d", v.calls)
	}
	ctl.elapsed = 2 * time.Second
	p.Tick(now)
	if v.calls != 2 || v.session != 2*time.Second || v.total != 2*time.Second {
		t.Fatalf("expected 2s display, got %v/%v calls=%d", v.session, v.total, v.calls)
	}
	ctl.active = false
	p.Tick(now)
	if v.session != 0 || v.total != 2*time.Second {
		t.Fatalf("after session end expected 0/2s, got %v/%v", v.session, v.total)
	}
}

func TestLoop_DrainsEventsAndReschedules(t *testing.T) {
	events := make(chan timelapse.Event, 4)
	tl, _, m, v := newTimelapseFixture()
	tl.Start()
	scheduled := 0
	loop := NewLoop(events, tl, nil, nil, func() { scheduled++ })

	events <- eventOf(1, timelapse.EventStarted)
	events <- eventOf(1, timelapse.EventFinished)
	loop.Tick()
	if m.Recording() || len(v.infos) != 1 || scheduled != 1 {
		t.Fatalf("loop did not apply events: recording=%v infos=%v scheduled=%d", m.Recording(), v.infos, scheduled)
	}

	var nilLoop *Loop
	nilLoop.Tick()
	(&Loop{}).Tick()
}
