package midi

import "gitlab.com/gomidi/midi/v2"

// Device is a grid controller whose bottom-left 4x4 corner acts as the keypad
type Device interface {
	// ActivateProgrammerMode sends necessary commands to initialize the device
	ActivateProgrammerMode(send func(midi.Message) error) error

	// SetPadColor sets the color of a keypad slot
	SetPadColor(send func(midi.Message) error, slot int, color PadColor) error

	// ClearAllPads clears all pads on the device
	ClearAllPads(send func(midi.Message) error) error

	// HandleMessage parses a MIDI message from the device.
	// Returns handled=true if the message is a press or release of a keypad slot.
	HandleMessage(msg midi.Message) (slot int, pressed bool, handled bool)
}
