package presenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/soocke/timelapse-go/domain/timelapse"
)

// SessionController narrows what the presenter needs from the capture controller.
type SessionController interface {
	Start(ctx context.Context, candidates []int) (timelapse.SessionInfo, error)
	Stop()
	UpdateSettings(intervalText, durationText string) (timelapse.Settings, error)
	Active() bool
}

// RecordingModel provides the recording flag.
type RecordingModel interface {
	Recording() bool
	SetRecording(bool)
}

// TimelapseView updates UI elements affected by session state.
type TimelapseView interface {
	SetStatus(text string)
	SetRecording(recording bool) // start/stop enablement and settings editability
	PreviewReset()
	ShowError(title, message string)
	ShowInfo(title, message string)
}

// TimelapsePresenter owns presentation logic for starting and stopping
// sessions and approving settings.
type TimelapsePresenter struct {
	ctx        context.Context
	ctl        SessionController
	model      RecordingModel
	view       TimelapseView
	candidates []int
	logger     *slog.Logger
	session    string // ID of the session the view reflects

	// OnSettings is called after settings were accepted, e.g. to persist them.
	OnSettings func(timelapse.Settings)
}

func NewTimelapsePresenter(ctx context.Context, ctl SessionController, model RecordingModel, view TimelapseView, candidates []int, logger *slog.Logger) *TimelapsePresenter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &TimelapsePresenter{ctx: ctx, ctl: ctl, model: model, view: view, candidates: candidates, logger: logger}
}

func (p *TimelapsePresenter) ready() bool {
	return p != nil && p.ctl != nil && p.model != nil && p.view != nil
}

// Start launches a session. Idempotent while a session is recording.
func (p *TimelapsePresenter) Start() {
	if !p.ready() {
		return
	}
	if p.model.Recording() {
		return
	}
	info, err := p.ctl.Start(p.ctx, p.candidates)
	if err != nil {
		if errors.Is(err, timelapse.ErrSessionActive) {
			p.view.SetStatus("Previous timelapse is still finishing, try again in a moment")
			return
		}
		p.logError("start timelapse", err)
		p.view.ShowError("Error", err.Error())
		return
	}
	p.session = info.ID
	p.model.SetRecording(true)
	p.view.SetRecording(true)
	p.view.SetStatus("Starting timelapse...")
}

// Stop ends the session and resets the display. Safe to call at any time;
// repeated calls leave the same state.
func (p *TimelapsePresenter) Stop() {
	if !p.ready() {
		return
	}
	p.ctl.Stop()
	p.reset("Timelapse stopped")
}

func (p *TimelapsePresenter) reset(status string) {
	p.model.SetRecording(false)
	p.view.PreviewReset()
	p.view.SetRecording(false)
	p.view.SetStatus(status)
}

// ApplySettings validates and stores new settings for the next session.
func (p *TimelapsePresenter) ApplySettings(intervalText, durationText string) {
	if !p.ready() {
		return
	}
	s, err := p.ctl.UpdateSettings(intervalText, durationText)
	if err != nil {
		p.view.ShowError("Invalid Input", "Please enter valid numbers for the frame interval and video duration.")
		return
	}
	p.view.ShowInfo("Settings Updated", "Frame interval and video duration have been updated!")
	if p.OnSettings != nil {
		p.OnSettings(s)
	}
}

// HandleEvent reflects a controller event in the view. Events of any session
// other than the one last started are ignored. Call on the UI thread.
func (p *TimelapsePresenter) HandleEvent(ev timelapse.Event) {
	if !p.ready() {
		return
	}
	if ev.Session.ID != p.session {
		if p.logger != nil {
			p.logger.Debug("ignoring event of earlier session", "kind", ev.Kind, "session", ev.Session.ID)
		}
		return
	}
	switch ev.Kind {
	case timelapse.EventStarted:
		p.view.SetStatus("Timelapse Running!")
	case timelapse.EventFrameCaptured:
		p.view.SetStatus(fmt.Sprintf("Timelapse Running! Captured frame at %ds", int(ev.Elapsed.Seconds())))
	case timelapse.EventFinished:
		p.reset("Timelapse finished")
		p.view.ShowInfo("Timelapse Finished", fmt.Sprintf("Timelapse saved as %s", ev.Session.VideoPath))
	case timelapse.EventStopped:
		p.reset("Timelapse stopped")
	case timelapse.EventFailed:
		p.reset(failureStatus(ev.Err))
		if errors.Is(ev.Err, timelapse.ErrDeviceUnavailable) {
			p.view.ShowError("Error", "No available camera found.")
		}
	}
}

func failureStatus(err error) string {
	switch {
	case errors.Is(err, timelapse.ErrDeviceUnavailable):
		return "No available camera found"
	case errors.Is(err, timelapse.ErrCaptureFailed):
		return "Failed to capture frame, timelapse aborted"
	case err != nil:
		return "Timelapse failed: " + err.Error()
	default:
		return "Timelapse failed"
	}
}

func (p *TimelapsePresenter) logError(msg string, err error) {
	if p.logger != nil {
		p.logger.Error(msg, "error", err)
	}
}
