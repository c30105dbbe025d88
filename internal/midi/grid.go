package midi

import (
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"

	"github.com/PixPMusic/gopher-keypad/internal/keypad"
)

// GridKeypad uses a Launchpad corner as the physical keypad and its LEDs
type GridKeypad struct {
	device Device
	send   func(midi.Message) error
	stop   func()
	edges  chan keypad.KeyEdge
	log    logrus.FieldLogger
}

// NewGridKeypad wraps a device. Pad messages arrive through Deliver.
func NewGridKeypad(device Device, send func(midi.Message) error, log logrus.FieldLogger) *GridKeypad {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &GridKeypad{
		device: device,
		send:   send,
		edges:  make(chan keypad.KeyEdge, inboundBuffer),
		log:    log,
	}
}

// Deliver is the listener callback; it runs on the driver goroutine
func (g *GridKeypad) Deliver(msg midi.Message, _ int32) {
	slot, pressed, handled := g.device.HandleMessage(msg)
	if !handled {
		return
	}
	edge := keypad.KeyEdge{Slot: slot, Edge: keypad.Released}
	if pressed {
		edge.Edge = keypad.Pressed
	}
	select {
	case g.edges <- edge:
	default:
		g.log.WithField("slot", slot).Warn("pad queue full, dropping edge")
	}
}

// Poll drains the edges received since the last call
func (g *GridKeypad) Poll() ([]keypad.KeyEdge, error) {
	var out []keypad.KeyEdge
	for {
		select {
		case e := <-g.edges:
			out = append(out, e)
		default:
			return out, nil
		}
	}
}

// Apply sets one slot's LED
func (g *GridKeypad) Apply(slot int, c keypad.Color) error {
	if g.send == nil {
		return nil
	}
	return keypad.TransportError(g.device.SetPadColor(g.send, slot, PadColorOf(c)), "set pad color")
}

// Close clears the pads and stops listening
func (g *GridKeypad) Close() {
	if g.send != nil {
		if err := g.device.ClearAllPads(g.send); err != nil {
			g.log.WithError(err).Warn("failed to clear pads")
		}
	}
	if g.stop != nil {
		g.stop()
		g.stop = nil
	}
}
