package gui

import (
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// holdButton fires onPress while the pointer is held and onRelease when it
// lets go. Drives the momentary peek condition.
type holdButton struct {
	widget.Button

	onPress   func()
	onRelease func()
}

func newHoldButton(label string, onPress, onRelease func()) *holdButton {
	b := &holdButton{
		onPress:   onPress,
		onRelease: onRelease,
	}
	b.Text = label
	b.ExtendBaseWidget(b)
	return b
}

func (b *holdButton) MouseDown(_ *desktop.MouseEvent) {
	if b.onPress != nil {
		b.onPress()
	}
}

func (b *holdButton) MouseUp(_ *desktop.MouseEvent) {
	if b.onRelease != nil {
		b.onRelease()
	}
}
