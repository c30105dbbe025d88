package midi

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/PixPMusic/gopher-keypad/internal/keypad"
)

// ParseMessage converts a note or control change message into an inbound event.
// Velocities and values are passed through unchanged.
func ParseMessage(msg midi.Message) (keypad.InboundEvent, bool) {
	var channel, key, velocity uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		return keypad.InboundEvent{Kind: keypad.NoteOn, Channel: channel, Note: key, Velocity: velocity}, true
	case msg.GetNoteOff(&channel, &key, &velocity):
		return keypad.InboundEvent{Kind: keypad.NoteOff, Channel: channel, Note: key, Velocity: velocity}, true
	case msg.GetControlChange(&channel, &key, &velocity):
		return keypad.InboundEvent{Kind: keypad.ControlChange, Channel: channel, Controller: key, Value: velocity}, true
	}
	return keypad.InboundEvent{}, false
}

// EncodeMessage builds the wire message for an outbound event on channel.
// Note off is always sent with release velocity 0.
func EncodeMessage(ev keypad.OutboundEvent, channel uint8) midi.Message {
	if ev.Kind == keypad.NoteOn {
		return midi.NoteOn(channel, ev.Note, ev.Velocity)
	}
	return midi.NoteOff(channel, ev.Note)
}
