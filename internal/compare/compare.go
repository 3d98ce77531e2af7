// Compare view compositing: wipe slider and momentary peek
//
// Everything in this package redraws from the cached preview snapshot and
// the original image; it never re-invokes the execution engine.
package compare

import (
	"image"
	"image/color"
	"image/draw"
)

// Mode selects how original and processed are contrasted.
type Mode int

const (
	// SideBySide draws original and processed on two independent surfaces.
	SideBySide Mode = iota
	// Wipe draws the processed snapshot with the original clipped to the
	// left of a draggable divider.
	Wipe
)

// View holds the compare-view state: display mode, wipe divider position as
// a fraction of the surface width, and the momentary peek flag.
type View struct {
	mode    Mode
	divider float64
	peek    bool
}

func NewView() *View {
	return &View{
		mode:    Wipe,
		divider: 0.5,
	}
}

func (v *View) Mode() Mode {
	return v.mode
}

func (v *View) SetMode(mode Mode) {
	v.mode = mode
}

// Divider returns the wipe position in [0,1].
func (v *View) Divider() float64 {
	return v.divider
}

// SetDivider moves the wipe position, confined to [0,1].
func (v *View) SetDivider(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	v.divider = fraction
}

// Peek reports whether the momentary peek condition is asserted.
func (v *View) Peek() bool {
	return v.peek
}

// SetPeek asserts or releases the peek condition. While asserted the whole
// surface shows the unprocessed original regardless of mode.
func (v *View) SetPeek(on bool) {
	v.peek = on
}

var dividerColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Render composes the wipe surface from the original and the cached
// snapshot. With peek asserted the surface is entirely the original. At
// divider 0 the surface is entirely the snapshot, at 1 entirely the
// original. Either input may be nil; the other is drawn alone.
func Render(original, snapshot *image.RGBA, view *View) *image.RGBA {
	base := snapshot
	if base == nil {
		base = original
	}
	if base == nil {
		return nil
	}

	bounds := base.Bounds()
	out := image.NewRGBA(bounds)

	if view.Peek() && original != nil {
		draw.Draw(out, bounds, original, original.Bounds().Min, draw.Src)
		return out
	}

	draw.Draw(out, bounds, base, base.Bounds().Min, draw.Src)

	if original == nil || snapshot == nil {
		return out
	}

	splitX := bounds.Min.X + int(view.Divider()*float64(bounds.Dx()))
	left := image.Rect(bounds.Min.X, bounds.Min.Y, splitX, bounds.Max.Y)
	draw.Draw(out, left, original, original.Bounds().Min, draw.Src)

	if view.Divider() > 0 && view.Divider() < 1 {
		line := image.Rect(splitX-1, bounds.Min.Y, splitX+1, bounds.Max.Y)
		draw.Draw(out, line.Intersect(bounds), image.NewUniform(dividerColor), image.Point{}, draw.Src)
	}
	return out
}
