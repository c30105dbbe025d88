package keypad

import "github.com/sirupsen/logrus"

// KeyEventController turns physical key edges into outbound notes and press feedback
type KeyEventController struct {
	mapper   *KeyIndexMapper
	notes    NoteMapper
	leds     *LedState
	out      Sender
	velocity uint8
	active   Color
	pressed  [NumKeys]bool
	log      logrus.FieldLogger
}

// NewKeyEventController wires a controller over a shared LedState
func NewKeyEventController(mapper *KeyIndexMapper, notes NoteMapper, leds *LedState, out Sender,
	velocity uint8, active Color, log logrus.FieldLogger) *KeyEventController {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &KeyEventController{
		mapper:   mapper,
		notes:    notes,
		leds:     leds,
		out:      out,
		velocity: velocity,
		active:   active,
		log:      log,
	}
}

// Handle applies one key edge. The key state advances even when the send fails;
// the failure is returned tagged as TransportUnavailable.
func (c *KeyEventController) Handle(e KeyEdge) error {
	logical, ok := c.mapper.LogicalOf(e.Slot)
	if !ok {
		c.log.WithField("slot", e.Slot).Debug("ignoring edge for unknown slot")
		return nil
	}

	want := e.Edge == Pressed
	if c.pressed[e.Slot] == want {
		return nil
	}
	c.pressed[e.Slot] = want

	note := c.notes.NoteOf(logical)
	var ev OutboundEvent
	if want {
		ev = OutboundEvent{Kind: NoteOn, Note: note, Velocity: c.velocity}
		c.leds.Set(e.Slot, c.active)
	} else {
		// Release leaves the LED alone: the DAW may still hold the note.
		ev = OutboundEvent{Kind: NoteOff, Note: note}
	}

	c.log.WithFields(logrus.Fields{"slot": e.Slot, "note": note, "edge": e.Edge}).Debug("key")
	return TransportError(c.out.Send(ev), "send "+ev.Kind.String())
}

// Pressed reports whether a physical slot is currently held down
func (c *KeyEventController) Pressed(slot int) bool {
	if slot < 0 || slot >= NumKeys {
		return false
	}
	return c.pressed[slot]
}
