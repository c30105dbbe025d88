// Package window provides an on-screen keypad that stands in for hardware.
package window

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/PixPMusic/gopher-keypad/internal/keypad"
)

const (
	gridSize   = 4
	edgeBuffer = 64
)

var padOff = color.RGBA{R: 40, G: 40, B: 40, A: 255}

// VirtualKeypad is a 4x4 pad grid in a window. Slot 0 is the top-left pad and
// slots run left to right, top to bottom.
type VirtualKeypad struct {
	window fyne.Window
	rects  [keypad.NumKeys]*canvas.Rectangle
	pads   [keypad.NumKeys]*padWidget
	status *widget.Label
	edges  chan keypad.KeyEdge
	log    logrus.FieldLogger
}

// NewVirtualKeypad builds the keypad window; it is not shown until Show
func NewVirtualKeypad(app fyne.App, title string, log logrus.FieldLogger) *VirtualKeypad {
	if log == nil {
		log = logrus.StandardLogger()
	}
	v := &VirtualKeypad{
		window: app.NewWindow(title),
		edges:  make(chan keypad.KeyEdge, edgeBuffer),
		log:    log,
	}

	header := widget.NewLabel(title)
	header.TextStyle = fyne.TextStyle{Bold: true}
	v.status = widget.NewLabel("")

	v.window.SetContent(container.NewBorder(
		container.NewVBox(header, widget.NewSeparator()),
		v.status,
		nil, nil,
		v.createPadGrid(),
	))
	v.window.Resize(fyne.NewSize(260, 320))
	v.window.CenterOnScreen()

	v.window.SetCloseIntercept(func() {
		v.window.Hide()
	})
	return v
}

func (v *VirtualKeypad) createPadGrid() fyne.CanvasObject {
	grid := container.NewGridWithColumns(gridSize)
	for slot := 0; slot < keypad.NumKeys; slot++ {
		s := slot
		rect := canvas.NewRectangle(padOff)
		rect.SetMinSize(fyne.NewSize(50, 50))
		rect.CornerRadius = 4
		v.rects[s] = rect

		v.pads[s] = newPadWidget(rect, func(pressed bool) {
			v.press(s, pressed)
		})
		grid.Add(v.pads[s])
	}
	return grid
}

func (v *VirtualKeypad) press(slot int, pressed bool) {
	edge := keypad.KeyEdge{Slot: slot, Edge: keypad.Released}
	if pressed {
		edge.Edge = keypad.Pressed
	}
	select {
	case v.edges <- edge:
	default:
		v.log.WithField("slot", slot).Warn("key queue full, dropping edge")
	}
}

// Poll drains the pad presses since the last call
func (v *VirtualKeypad) Poll() ([]keypad.KeyEdge, error) {
	var out []keypad.KeyEdge
	for {
		select {
		case e := <-v.edges:
			out = append(out, e)
		default:
			return out, nil
		}
	}
}

// Apply repaints one pad
func (v *VirtualKeypad) Apply(slot int, c keypad.Color) error {
	if slot < 0 || slot >= keypad.NumKeys {
		return keypad.ConfigError("slot %d out of range", slot)
	}
	fill := padOff
	if c != keypad.Off {
		fill = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	}
	rect := v.rects[slot]
	fyne.Do(func() {
		rect.FillColor = fill
		rect.Refresh()
	})
	return nil
}

// SetStatus shows a line of text under the pads. Call it from the UI goroutine.
func (v *VirtualKeypad) SetStatus(format string, args ...any) {
	v.status.SetText(fmt.Sprintf(format, args...))
}

// Show displays the window
func (v *VirtualKeypad) Show() {
	v.window.Show()
}

// Hide hides the window
func (v *VirtualKeypad) Hide() {
	v.window.Hide()
}

// Window returns the underlying fyne.Window
func (v *VirtualKeypad) Window() fyne.Window {
	return v.window
}
