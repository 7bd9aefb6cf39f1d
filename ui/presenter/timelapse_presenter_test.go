package presenter

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/soocke/timelapse-go/domain/timelapse"
	"github.com/soocke/timelapse-go/ui/model"
)

type mockController struct {
	started, stopped int
	startErr         error
	settings         timelapse.Settings
	active           bool
	elapsed          time.Duration
}

func (c *mockController) Start(ctx context.Context, candidates []int) (timelapse.SessionInfo, error) {
	if c.startErr != nil {
		return timelapse.SessionInfo{}, c.startErr
	}
	c.started++
	c.active = true
	return timelapse.SessionInfo{ID: sessionID(c.started)}, nil
}

func sessionID(n int) string { return fmt.Sprintf("session-%d", n) }

func eventOf(n int, kind timelapse.EventKind) timelapse.Event {
	return timelapse.Event{Kind: kind, Session: timelapse.SessionInfo{ID: sessionID(n)}}
}

func (c *mockController) Stop() { c.stopped++; c.active = false }

func (c *mockController) UpdateSettings(i, d string) (timelapse.Settings, error) {
	s, err := timelapse.ParseSettings(i, d)
	if err != nil {
		return c.settings, err
	}
	c.settings = s
	return s, nil
}

func (c *mockController) Active() bool           { return c.active }
func (c *mockController) Elapsed() time.Duration { return c.elapsed }

type mockTimelapseView struct {
	status         string
	recording      bool
	recordingCalls int
	resets         int
	errors         []string
	infos          []string
}

func (v *mockTimelapseView) SetStatus(text string)     { v.status = text }
func (v *mockTimelapseView) SetRecording(b bool)       { v.recording = b; v.recordingCalls++ }
func (v *mockTimelapseView) PreviewReset()             { v.resets++ }
func (v *mockTimelapseView) ShowError(title, m string) { v.errors = append(v.errors, title+": "+m) }
func (v *mockTimelapseView) ShowInfo(title, m string)  { v.infos = append(v.infos, title+": "+m) }

func newTimelapseFixture() (*TimelapsePresenter, *mockController, *model.RecorderModel, *mockTimelapseView) {
	ctl := &mockController{settings: timelapse.DefaultSettings()}
	m := &model.RecorderModel{}
	v := &mockTimelapseView{}
	return NewTimelapsePresenter(context.Background(), ctl, m, v, []int{1, 0}, nil), ctl, m, v
}

func TestTimelapsePresenter_StartStop_Idempotent(t *testing.T) {
	p, ctl, m, v := newTimelapseFixture()

	p.Start()
	if !m.Recording() || ctl.started != 1 || !v.recording {
		t.Fatalf("start failed: recording=%v started=%d view=%v", m.Recording(), ctl.started, v.recording)
	}
	p.Start()
	if ctl.started != 1 {
		t.Fatalf("start not idempotent: started=%d", ctl.started)
	}

	p.Stop()
	if m.Recording() || ctl.stopped != 1 || v.recording || v.resets != 1 {
		t.Fatalf("stop failed: recording=%v stopped=%d view=%v resets=%d", m.Recording(), ctl.stopped, v.recording, v.resets)
	}
	first := *v
	p.Stop()
	if m.Recording() || v.recording != first.recording || v.status != first.status {
		t.Fatalf("second stop changed final state")
	}
}

func TestTimelapsePresenter_StartError(t *testing.T) {
	p, ctl, m, v := newTimelapseFixture()
	ctl.startErr = errors.New("create media root: permission denied")
	p.Start()
	if m.Recording() || len(v.errors) != 1 {
		t.Fatalf("expected error dialog and idle model, errors=%v", v.errors)
	}

	ctl.startErr = timelapse.ErrSessionActive
	p.Start()
	if len(v.errors) != 1 {
		t.Fatalf("active session should not raise a dialog")
	}
	if v.status == "" || m.Recording() {
		t.Fatalf("active session should be reported in the status line, status=%q", v.status)
	}
}

func TestTimelapsePresenter_ApplySettings(t *testing.T) {
	p, ctl, _, v := newTimelapseFixture()
	var saved []timelapse.Settings
	p.OnSettings = func(s timelapse.Settings) { saved = append(saved, s) }

	p.ApplySettings("5", "30")
	if ctl.settings.Interval != 5*time.Second || len(v.infos) != 1 || len(saved) != 1 {
		t.Fatalf("valid settings not applied: %+v infos=%v saved=%v", ctl.settings, v.infos, saved)
	}
	p.ApplySettings("abc", "30")
	if ctl.settings.Interval != 5*time.Second || len(v.errors) != 1 || len(saved) != 1 {
		t.Fatalf("invalid settings should be rejected: %+v errors=%v", ctl.settings, v.errors)
	}
}

func TestTimelapsePresenter_HandleEvents(t *testing.T) {
	cases := []struct {
		ev        timelapse.Event
		errDialog bool
		infoCount int
	}{
		{timelapse.Event{Kind: timelapse.EventFinished, Session: timelapse.SessionInfo{VideoPath: "media/1_video.avi"}}, false, 1},
		{timelapse.Event{Kind: timelapse.EventStopped}, false, 0},
		{timelapse.Event{Kind: timelapse.EventFailed, Err: fmt.Errorf("%w: camera 1", timelapse.ErrDeviceUnavailable)}, true, 0},
		{timelapse.Event{Kind: timelapse.EventFailed, Err: fmt.Errorf("%w: eof", timelapse.ErrCaptureFailed)}, false, 0},
	}
	for _, tc := range cases {
		p, _, m, v := newTimelapseFixture()
		p.Start()
		tc.ev.Session.ID = sessionID(1)
		p.HandleEvent(eventOf(1, timelapse.EventStarted))
		if v.status != "Timelapse Running!" {
			t.Fatalf("status after Started = %q", v.status)
		}
		captured := eventOf(1, timelapse.EventFrameCaptured)
		captured.Elapsed = 3 * time.Second
		p.HandleEvent(captured)
		p.HandleEvent(tc.ev)
		if m.Recording() || v.recording || v.resets != 1 {
			t.Fatalf("%v: expected reset, recording=%v resets=%d", tc.ev.Kind, m.Recording(), v.resets)
		}
		if (len(v.errors) == 1) != tc.errDialog || len(v.infos) != tc.infoCount {
			t.Fatalf("%v: errors=%v infos=%v", tc.ev.Kind, v.errors, v.infos)
		}
	}
}

func TestTimelapsePresenter_IgnoresEventsOfEarlierSession(t *testing.T) {
	p, ctl, m, v := newTimelapseFixture()

	p.Start()
	p.Stop()
	p.Start()
	if ctl.started != 2 || !m.Recording() {
		t.Fatalf("second session should be recording, started=%d", ctl.started)
	}
	// The first session's terminal event is drained only now.
	p.HandleEvent(eventOf(1, timelapse.EventStopped))
	if !m.Recording() || !v.recording {
		t.Fatalf("late event of session 1 reset session 2: recording=%v view=%v status=%q", m.Recording(), v.recording, v.status)
	}

	p.HandleEvent(eventOf(2, timelapse.EventFinished))
	if m.Recording() || v.recording || len(v.infos) != 1 {
		t.Fatalf("own terminal event should reset, recording=%v infos=%v", m.Recording(), v.infos)
	}
}
