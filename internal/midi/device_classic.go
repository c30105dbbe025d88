package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// ClassicDevice implements Device for Launchpad S
type ClassicDevice struct{}

func (d *ClassicDevice) ActivateProgrammerMode(send func(midi.Message) error) error {
	// Send reset: B0 00 00 (CC 0 value 0)
	if err := send(midi.ControlChange(0, 0, 0)); err != nil {
		return fmt.Errorf("failed to reset Launchpad S: %w", err)
	}
	return nil
}

// gridNote maps a grid position to the Launchpad S note: row 1 = notes 0-8, row 2 = 16-24, ...
func (d *ClassicDevice) gridNote(row, col int) uint8 {
	return uint8((row-1)*16 + col)
}

func (d *ClassicDevice) SetPadColor(send func(midi.Message) error, slot int, color PadColor) error {
	row, col, ok := slotToGrid(slot)
	if !ok {
		return nil
	}
	return send(midi.NoteOn(0, d.gridNote(row, col), d.velocity(color)))
}

// velocity packs the color into the Launchpad S format: bits 5-4 green, 3-2 flags (copy+clear), 1-0 red
func (d *ClassicDevice) velocity(color PadColor) uint8 {
	if color.R < 5 && color.G < 5 && color.B < 5 {
		return 0x0C
	}

	// Blue has no LED; fold it mostly into green, a little into red
	effectiveR := int(color.R) + int(color.B)/4
	effectiveG := int(color.G) + (int(color.B)*3)/4
	if effectiveR > 127 {
		effectiveR = 127
	}
	if effectiveG > 127 {
		effectiveG = 127
	}

	return (d.colorTo4Level(uint8(effectiveG)) << 4) | 0x0C | d.colorTo4Level(uint8(effectiveR))
}

func (d *ClassicDevice) colorTo4Level(value uint8) uint8 {
	if value < 32 {
		return 0
	} else if value < 64 {
		return 1
	} else if value < 96 {
		return 2
	}
	return 3
}

func (d *ClassicDevice) ClearAllPads(send func(midi.Message) error) error {
	// Reset Launchpad S: B0 00 00
	return send(midi.ControlChange(0, 0, 0))
}

func (d *ClassicDevice) HandleMessage(msg midi.Message) (slot int, pressed bool, handled bool) {
	var channel, key, velocity uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		pressed = velocity > 0
	case msg.GetNoteOff(&channel, &key, &velocity):
		pressed = false
	default:
		return 0, false, false
	}

	slot, ok := gridToSlot(int(key/16)+1, int(key%16))
	if !ok {
		return 0, false, false
	}
	return slot, pressed, true
}
