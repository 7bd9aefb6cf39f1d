package app

import (
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/timelapse-go/config"
	"github.com/soocke/timelapse-go/ui/theme"
	"github.com/soocke/timelapse-go/ui/view"
)

const (
	tick = 33 * time.Millisecond
)

type app struct {
	c       *AppContainer
	logger  *slog.Logger
	afterID string
	closing bool
}

func NewApp(title string, cfg *config.Config, cfgPath string, logger *slog.Logger) *app {
	a := &app{c: BuildContainer(cfg, cfgPath, logger), logger: logger}

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", cfg.WindowWidth, cfg.WindowHeight))
	return a
}

// Start builds the window, starts the UI tick and blocks until the window closes.
func (a *app) Start() {
	theme.InitStyles()
	settings := a.c.Controller.Settings()
	a.c.RootView.Build(settings.IntervalSeconds(), settings.DurationSeconds(), view.Handlers{
		OnStart:         a.c.TimelapsePresenter.Start,
		OnStop:          a.c.TimelapsePresenter.Stop,
		OnTogglePreview: a.c.PreviewPresenter.Toggle,
		OnApplySettings: a.c.TimelapsePresenter.ApplySettings,
		OnExit:          a.exitHandler,
	})
	a.c.Loop.Schedule = a.scheduleUpdate

	// Kick off update loop.
	a.scheduleUpdate()
	App.Wait()
}

func (a *app) scheduleUpdate() {
	if a.closing {
		return
	}
	// TclAfter keeps the tick on Tk's event loop thread.
	a.afterID = TclAfter(tick, a.c.Loop.Tick)
}

func (a *app) exitHandler() {
	if a.closing {
		return
	}
	a.closing = true
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.c.Shutdown()
	a.logger.Info("exiting")
	Destroy(App)
}
