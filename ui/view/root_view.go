package view

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/timelapse-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const columns = 4

// Handlers are invoked on user actions. Nil handlers are ignored.
type Handlers struct {
	OnStart         func()
	OnStop          func()
	OnTogglePreview func()
	OnApplySettings func(interval, duration string)
	OnExit          func()
}

// RootView composes the top-level application layout and wires UI callbacks.
// It implements the view contracts of the timelapse, preview and session
// presenters.
type RootView struct {
	logger *slog.Logger

	// Subviews
	Session     SessionStats
	Settings    SettingsPanel
	CapturePrev CapturePreview

	// Widgets
	StatusLabel *TLabelWidget
	startBtn    *TButtonWidget
	stopBtn     *TButtonWidget
	previewBtn  *TButtonWidget

	previewW, previewH int
}

func NewRootView(previewW, previewH int, logger *slog.Logger) *RootView {
	return &RootView{logger: logger, previewW: previewW, previewH: previewH}
}

// Build constructs the layout with the given initial settings in seconds.
func (rv *RootView) Build(intervalSeconds, durationSeconds int, h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: status
	rv.StatusLabel = TLabel(Style(theme.StyleStatusLabel), Txt("Ready"), Anchor("w"))
	Grid(rv.StatusLabel, Row(0), Column(0), Columnspan(columns), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	// Row 1: live feed
	rv.CapturePrev = NewCapturePreview(1, columns, rv.previewW, rv.previewH)

	// Row 2: elapsed / total
	rv.Session = NewSessionStats(nil, 2, 0)

	// Rows 3..: settings
	rv.Settings = NewSettingsPanel(intervalSeconds, durationSeconds, h.OnApplySettings)
	row := rv.Settings.Build(3)

	btnFrame := Frame()
	Grid(btnFrame, Row(row), Column(0), Columnspan(columns), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	rv.startBtn = TButton(Style(theme.StylePrimaryButton), Txt("Start Timelapse"), Command(call(h.OnStart)))
	rv.stopBtn = TButton(Style(theme.StyleDangerButton), Txt("Stop Timelapse"), Command(call(h.OnStop)))
	rv.previewBtn = TButton(Txt("Show Camera Feed"), Command(call(h.OnTogglePreview)))
	exitBtn := TButton(Txt("Exit"), Command(call(h.OnExit)))
	for i, b := range []*TButtonWidget{rv.startBtn, rv.stopBtn, rv.previewBtn, exitBtn} {
		Grid(b, In(btnFrame), Row(0), Column(i), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	}
	rv.SetRecording(false)
}

func call(fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
	}
}

// SetStatus updates the status label text.
func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.StatusLabel != nil {
		rv.StatusLabel.Configure(Txt(text))
	}
}

// SetRecording toggles button enablement and settings editability.
func (rv *RootView) SetRecording(recording bool) {
	if rv == nil {
		return
	}
	if rv.startBtn != nil {
		rv.startBtn.Configure(State(enabled(!recording)))
	}
	if rv.stopBtn != nil {
		rv.stopBtn.Configure(State(enabled(recording)))
	}
	if rv.Settings != nil {
		rv.Settings.SetEditable(!recording)
	}
}

func enabled(b bool) string {
	if b {
		return "normal"
	}
	return "disabled"
}

// SetPreviewing updates the feed button caption.
func (rv *RootView) SetPreviewing(on bool) {
	if rv == nil || rv.previewBtn == nil {
		return
	}
	if on {
		rv.previewBtn.Configure(Txt("Hide Camera Feed"))
		return
	}
	rv.previewBtn.Configure(Txt("Show Camera Feed"))
}

// UpdatePreview shows an already scaled frame.
func (rv *RootView) UpdatePreview(img image.Image) {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.Update(img)
	}
}

// PreviewReset clears the preview to the placeholder.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.Reset()
	}
}

// SetSession updates the elapsed and total durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}

// ShowError pops up a modal error dialog.
func (rv *RootView) ShowError(title, message string) {
	if rv != nil && rv.logger != nil {
		rv.logger.Warn("error dialog", "title", title, "message", message)
	}
	MessageBox(Icon("error"), Title(title), Msg(message), Type("ok"))
}

// ShowInfo pops up a modal info dialog.
func (rv *RootView) ShowInfo(title, message string) {
	MessageBox(Icon("info"), Title(title), Msg(message), Type("ok"))
}
