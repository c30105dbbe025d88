package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// ColorfulDevice implements Device for Launchpad Mini Mk3
type ColorfulDevice struct{}

func (d *ColorfulDevice) ActivateProgrammerMode(send func(midi.Message) error) error {
	// SysEx for programmer mode: 00 20 29 02 0D 0E 01
	sysexContent := []byte{0x00, 0x20, 0x29, 0x02, 0x0D, 0x0E, 0x01}
	if err := send(midi.SysEx(sysexContent)); err != nil {
		return fmt.Errorf("failed to send programmer mode message: %w", err)
	}
	return nil
}

// ledIndex maps a grid position to the programmer mode LED: bottom-left is 11, top-right 99
func (d *ColorfulDevice) ledIndex(row, col int) uint8 {
	return uint8((8-row)*10 + col + 11)
}

func (d *ColorfulDevice) SetPadColor(send func(midi.Message) error, slot int, color PadColor) error {
	row, col, ok := slotToGrid(slot)
	if !ok {
		return nil
	}

	// SysEx for RGB LED: F0 00 20 29 02 0D 03 03 <led> <r> <g> <b> F7
	sysexContent := []byte{
		0x00, 0x20, 0x29, 0x02, 0x0D, 0x03,
		0x03, // RGB mode
		d.ledIndex(row, col),
		d.scaleColor(color.R) & 0x7F,
		d.scaleColor(color.G) & 0x7F,
		d.scaleColor(color.B) & 0x7F,
	}
	return send(midi.SysEx(sysexContent))
}

// scaleColor applies a power curve so mid-range colors stay distinct
func (d *ColorfulDevice) scaleColor(value uint8) uint8 {
	if value == 0 {
		return 0
	}
	f := float64(value) / 127.0
	scaled := f * f * 127.0
	if scaled < 1 {
		scaled = 1
	}
	return uint8(scaled)
}

func (d *ColorfulDevice) ClearAllPads(send func(midi.Message) error) error {
	// One SysEx with static color 0 for every LED
	sysexContent := []byte{0x00, 0x20, 0x29, 0x02, 0x0D, 0x03}
	for i := 11; i <= 99; i++ {
		if i%10 >= 1 && i%10 <= 9 {
			sysexContent = append(sysexContent, 0x00, uint8(i), 0x00)
		}
	}
	return send(midi.SysEx(sysexContent))
}

func (d *ColorfulDevice) HandleMessage(msg midi.Message) (slot int, pressed bool, handled bool) {
	var channel, key, velocity uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		pressed = velocity > 0
	case msg.GetNoteOff(&channel, &key, &velocity):
		pressed = false
	default:
		return 0, false, false
	}

	if key < 11 || key > 99 {
		return 0, false, false
	}
	slot, ok := gridToSlot(8-int((key-11)/10), int((key-11)%10))
	if !ok {
		return 0, false, false
	}
	return slot, pressed, true
}
