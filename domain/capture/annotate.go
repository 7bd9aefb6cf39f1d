package capture

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Annotation origin (baseline-left) in frame coordinates.
const (
	annotationX = 10
	annotationY = 30
)

// ElapsedLabel formats the overlay text burned into each frame.
func ElapsedLabel(elapsedSeconds int) string {
	return fmt.Sprintf("Time: %ds", elapsedSeconds)
}

// Annotate draws text in black onto frame at the fixed overlay position.
func Annotate(frame *image.RGBA, text string) {
	if frame == nil || text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(frame.Rect.Min.X+annotationX, frame.Rect.Min.Y+annotationY),
	}
	d.DrawString(text)
}

// AnnotationBounds returns the rectangle Annotate may touch for text.
func AnnotationBounds(frame *image.RGBA, text string) image.Rectangle {
	if frame == nil {
		return image.Rectangle{}
	}
	bounds, _ := font.BoundString(basicfont.Face7x13, text)
	origin := image.Pt(frame.Rect.Min.X+annotationX, frame.Rect.Min.Y+annotationY)
	return image.Rect(
		origin.X+bounds.Min.X.Floor(),
		origin.Y+bounds.Min.Y.Floor(),
		origin.X+bounds.Max.X.Ceil(),
		origin.Y+bounds.Max.Y.Ceil(),
	).Intersect(frame.Rect)
}
