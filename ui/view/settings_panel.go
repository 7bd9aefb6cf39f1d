package view

import (
	"strconv"
	"strings"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// SettingsPanel holds the frame interval and video duration fields. Raw
// field text is handed to onApply; parsing and validation happen in the
// controller.
type SettingsPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	Values() (interval, duration string)
}

type settingsPanel struct {
	interval int
	duration int
	onApply  func(interval, duration string)
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget
}

// NewSettingsPanel creates the panel prefilled with the given seconds.
func NewSettingsPanel(intervalSeconds, durationSeconds int, onApply func(interval, duration string)) SettingsPanel {
	return &settingsPanel{
		interval: intervalSeconds,
		duration: durationSeconds,
		onApply:  onApply,
		widgets:  make(map[string]*TextWidget),
	}
}

func (v *settingsPanel) Build(startRow int) (row int) {
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(16))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("interval", "Frame Interval (seconds)", strconv.Itoa(v.interval))
	makeRow("duration", "Video Duration (seconds)", strconv.Itoa(v.duration))
	v.applyBtn = Button(Txt("Approve Changes"), Command(func() {
		if v.onApply != nil {
			v.onApply(v.Values())
		}
	}))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *settingsPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *settingsPanel) Values() (interval, duration string) {
	return v.text("interval"), v.text("duration")
}

func (v *settingsPanel) text(id string) string {
	w := v.widgets[id]
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}
