package view

import (
	"image"

	"github.com/soocke/timelapse-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CapturePreview shows the live camera feed in a single label.
type CapturePreview interface {
	Update(img image.Image)
	Reset()
}

type capturePreview struct {
	label     *LabelWidget
	w, h      int
	prevPhoto *Img // disposed before replacement so pixel data does not pile up
}

// NewCapturePreview creates the preview label spanning all columns of row.
// Frames passed to Update are expected to be scaled to w x h already.
func NewCapturePreview(row, columns, w, h int) CapturePreview {
	photo := NewPhoto(Data(images.EncodePNG(images.Placeholder(w, h))))
	lbl := Label(Image(photo), Borderwidth(1), Relief("sunken"))
	Grid(lbl, Row(row), Column(0), Columnspan(columns), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	return &capturePreview{label: lbl, w: w, h: h, prevPhoto: photo}
}

func (v *capturePreview) Update(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	v.replace(images.EncodePNG(img))
}

func (v *capturePreview) Reset() {
	if v == nil || v.label == nil {
		return
	}
	v.replace(images.EncodePNG(images.Placeholder(v.w, v.h)))
}

func (v *capturePreview) replace(pngBytes []byte) {
	if len(pngBytes) == 0 {
		return
	}
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(pngBytes))
	v.label.Configure(Image(v.prevPhoto))
}
