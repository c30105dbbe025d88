package window

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// ============ PRESSABLE PAD WIDGET ============

// padWidget reports mouse down and up separately so a pad can be held
type padWidget struct {
	widget.BaseWidget
	rect    *canvas.Rectangle
	onPress func(pressed bool)
}

func newPadWidget(rect *canvas.Rectangle, onPress func(pressed bool)) *padWidget {
	p := &padWidget{rect: rect, onPress: onPress}
	p.ExtendBaseWidget(p)
	return p
}

func (p *padWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.rect)
}

func (p *padWidget) MouseDown(_ *desktop.MouseEvent) {
	if p.onPress != nil {
		p.onPress(true)
	}
}

func (p *padWidget) MouseUp(_ *desktop.MouseEvent) {
	if p.onPress != nil {
		p.onPress(false)
	}
}
