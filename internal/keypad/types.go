package keypad

// NumKeys is the number of keys on the 4x4 pad
const NumKeys = 16

// Color is an RGB LED color (0-255 per channel)
type Color struct {
	R, G, B uint8
}

// Off is the unlit color
var Off = Color{}

// Edge is a physical key transition
type Edge int

const (
	Released Edge = iota
	Pressed
)

func (e Edge) String() string {
	if e == Pressed {
		return "pressed"
	}
	return "released"
}

// KeyEdge is one transition reported by the physical input
type KeyEdge struct {
	Slot int
	Edge Edge
}

// EventKind tags the MIDI event variants
type EventKind int

const (
	NoteOn EventKind = iota
	NoteOff
	ControlChange
)

func (k EventKind) String() string {
	switch k {
	case NoteOn:
		return "note_on"
	case NoteOff:
		return "note_off"
	case ControlChange:
		return "cc"
	}
	return "unknown"
}

// InboundEvent is a MIDI message received from the DAW.
// Note/Velocity are set for NoteOn and NoteOff, Controller/Value for ControlChange.
type InboundEvent struct {
	Kind       EventKind
	Channel    uint8
	Note       uint8
	Velocity   uint8
	Controller uint8
	Value      uint8
}

// OutboundEvent is a MIDI note sent towards the DAW
type OutboundEvent struct {
	Kind     EventKind // NoteOn or NoteOff
	Note     uint8
	Velocity uint8
}

// Sender delivers outbound events to the MIDI transport
type Sender interface {
	Send(ev OutboundEvent) error
}

// LEDSink pushes one key color to the LED hardware
type LEDSink interface {
	Apply(slot int, c Color) error
}

// KeyGroup is a fixed set of logical indices lit together by control change
type KeyGroup []int
