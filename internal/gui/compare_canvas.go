// Compare canvas widget: side-by-side and wipe-slider presentation
package gui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-chain-studio/internal/compare"
)

// CompareCanvas displays the original and the cached preview snapshot. All
// redraws compose from the two cached images; the execution engine is never
// touched from here.
type CompareCanvas struct {
	widget.BaseWidget

	logger *logrus.Logger
	view   *compare.View

	original *image.RGBA
	snapshot *image.RGBA

	wipeSurface  *canvas.Image
	sideOriginal *canvas.Image
	sideSnapshot *canvas.Image

	wipeContent *fyne.Container
	sideContent *container.Split
	stack       *fyne.Container
}

func NewCompareCanvas(logger *logrus.Logger) *CompareCanvas {
	cc := &CompareCanvas{
		logger: logger,
		view:   compare.NewView(),
	}

	placeholder := image.NewRGBA(image.Rect(0, 0, 1, 1))

	cc.wipeSurface = canvas.NewImageFromImage(placeholder)
	cc.wipeSurface.FillMode = canvas.ImageFillContain
	cc.wipeSurface.ScaleMode = canvas.ImageScaleSmooth

	cc.sideOriginal = canvas.NewImageFromImage(placeholder)
	cc.sideOriginal.FillMode = canvas.ImageFillContain
	cc.sideOriginal.ScaleMode = canvas.ImageScaleSmooth

	cc.sideSnapshot = canvas.NewImageFromImage(placeholder)
	cc.sideSnapshot.FillMode = canvas.ImageFillContain
	cc.sideSnapshot.ScaleMode = canvas.ImageScaleSmooth

	cc.wipeContent = container.NewStack(cc.wipeSurface)
	cc.sideContent = container.NewHSplit(
		container.NewBorder(widget.NewCard("", "Original", nil), nil, nil, nil, cc.sideOriginal),
		container.NewBorder(widget.NewCard("", "Processed", nil), nil, nil, nil, cc.sideSnapshot),
	)
	cc.sideContent.SetOffset(0.5)

	cc.stack = container.NewStack(cc.sideContent, cc.wipeContent)

	cc.ExtendBaseWidget(cc)
	cc.applyMode()
	return cc
}

func (cc *CompareCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(cc.stack)
}

// SetOriginal replaces the cached original image.
func (cc *CompareCanvas) SetOriginal(img *image.RGBA) {
	cc.original = img
	cc.redraw()
}

// SetSnapshot replaces the cached preview snapshot.
func (cc *CompareCanvas) SetSnapshot(img *image.RGBA) {
	cc.snapshot = img
	cc.redraw()
}

// SetMode switches between side-by-side and wipe presentation.
func (cc *CompareCanvas) SetMode(mode compare.Mode) {
	cc.view.SetMode(mode)
	cc.logger.WithField("mode", mode).Debug("compare mode changed")
	cc.applyMode()
	cc.redraw()
}

// SetPeek asserts or releases the momentary peek condition.
func (cc *CompareCanvas) SetPeek(on bool) {
	cc.view.SetPeek(on)
	cc.redraw()
}

// Dragged moves the wipe divider, confined to [0,1] of the surface width.
func (cc *CompareCanvas) Dragged(event *fyne.DragEvent) {
	if cc.view.Mode() != compare.Wipe {
		return
	}
	width := cc.Size().Width
	if width <= 0 {
		return
	}
	cc.view.SetDivider(float64(event.Position.X) / float64(width))
	cc.redraw()
}

func (cc *CompareCanvas) DragEnd() {}

func (cc *CompareCanvas) applyMode() {
	if cc.view.Mode() == compare.Wipe {
		cc.sideContent.Hide()
		cc.wipeContent.Show()
	} else {
		cc.wipeContent.Hide()
		cc.sideContent.Show()
	}
}

func (cc *CompareCanvas) redraw() {
	// Peek overlays the whole surface with the original, whatever the mode.
	if cc.view.Peek() {
		cc.sideContent.Hide()
		cc.wipeContent.Show()
	} else {
		cc.applyMode()
	}

	if cc.view.Mode() == compare.Wipe || cc.view.Peek() {
		if composed := compare.Render(cc.original, cc.snapshot, cc.view); composed != nil {
			cc.wipeSurface.Image = composed
		}
		cc.wipeSurface.Refresh()
		return
	}

	if cc.original != nil {
		cc.sideOriginal.Image = cc.original
		cc.sideOriginal.Refresh()
	}
	if cc.snapshot != nil {
		cc.sideSnapshot.Image = cc.snapshot
		cc.sideSnapshot.Refresh()
	}
}
