package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/soocke/timelapse-go/config"
	"github.com/soocke/timelapse-go/domain/capture"
	"github.com/soocke/timelapse-go/domain/capture/opencv"
	"github.com/soocke/timelapse-go/domain/preview"
	"github.com/soocke/timelapse-go/domain/timelapse"
	"github.com/soocke/timelapse-go/ui/model"
	"github.com/soocke/timelapse-go/ui/presenter"
	"github.com/soocke/timelapse-go/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config   *config.Config
	CfgPath  string
	Logger   *slog.Logger
	Recorder *model.RecorderModel
	Session  *model.SessionModel

	Controller *timelapse.Controller
	Relay      preview.Relay
	RootView   *view.RootView

	// Presenters
	TimelapsePresenter *presenter.TimelapsePresenter
	PreviewPresenter   *presenter.PreviewPresenter
	SessionPresenter   *presenter.SessionPresenter
	Loop               *presenter.Loop

	cancel context.CancelFunc
}

// BuildContainer constructs all components. No Tk widgets are created here;
// the root view builds its widgets in App.Start.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) *AppContainer {
	c := &AppContainer{Config: cfg, CfgPath: cfgPath, Logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.Recorder = &model.RecorderModel{}
	c.Session = model.NewSessionModel()

	opener := newOpener(cfg, logger)
	settings, err := timelapse.SettingsFromSeconds(cfg.IntervalSeconds, cfg.DurationSeconds)
	if err != nil {
		logger.Warn("invalid session settings in config, using defaults", "error", err)
		settings = timelapse.DefaultSettings()
	}
	c.Controller = timelapse.NewController(logger, opener, opencv.WriterFactory{},
		capture.JPEGWriter{Quality: cfg.JPEGQuality}, settings, timelapse.Options{
			Root:        cfg.MediaRoot,
			Codec:       cfg.Codec,
			FPS:         cfg.FPS,
			SettleDelay: time.Duration(cfg.SettleDelayMs) * time.Millisecond,
			KeepFrames:  cfg.KeepFrames,
		})
	c.Relay = preview.NewRelay(logger, opener, time.Duration(cfg.PreviewPaceMs)*time.Millisecond)

	previewW, previewH := previewSize(cfg)
	c.RootView = view.NewRootView(previewW, previewH, logger)

	candidates, previewIndex := cfg.DeviceIndices()
	c.TimelapsePresenter = presenter.NewTimelapsePresenter(ctx, c.Controller, c.Recorder, c.RootView, candidates, logger)
	c.TimelapsePresenter.OnSettings = c.persistSettings
	c.PreviewPresenter = presenter.NewPreviewPresenter(ctx, c.Relay, c.Recorder, c.RootView, previewIndex, previewW, previewH, logger)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.Controller, c.RootView)
	// Schedule is set by the app once the Tk loop is running.
	c.Loop = presenter.NewLoop(c.Controller.Events(), c.TimelapsePresenter, c.SessionPresenter, c.PreviewPresenter, nil)
	return c
}

func newOpener(cfg *config.Config, logger *slog.Logger) capture.Opener {
	if cfg.Source == config.SourceScreen {
		return capture.ScreenOpener{}
	}
	return opencv.NewCameraOpener(opencv.ParseAPI(cfg.Backend), logger)
}

func previewSize(cfg *config.Config) (int, int) {
	w := cfg.WindowWidth - 40
	if w < 160 {
		w = 160
	}
	return w, w * 9 / 16
}

// persistSettings stores accepted settings in the config file so the next
// launch starts with them.
func (c *AppContainer) persistSettings(s timelapse.Settings) {
	c.Config.IntervalSeconds = s.IntervalSeconds()
	c.Config.DurationSeconds = s.DurationSeconds()
	if c.CfgPath == "" {
		return
	}
	if err := c.Config.Save(c.CfgPath); err != nil {
		c.Logger.Error("config save failed", "error", err)
		return
	}
	c.Logger.Info("config saved", "path", c.CfgPath)
}

const shutdownTimeout = 3 * time.Second

// Shutdown stops the session and the feed and waits for their goroutines.
// A camera stuck in a read is abandoned after shutdownTimeout.
func (c *AppContainer) Shutdown() {
	c.Controller.Stop()
	c.Relay.Stop()
	c.cancel()
	done := make(chan struct{})
	go func() {
		c.Controller.Wait()
		c.Relay.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		c.Logger.Warn("capture goroutines still running at exit", "timeout", shutdownTimeout)
	}
}
