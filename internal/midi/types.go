package midi

import "github.com/PixPMusic/gopher-keypad/internal/keypad"

// DeviceType represents the type of grid controller used as a keypad
type DeviceType string

const (
	DeviceTypeClassic  DeviceType = "classic"  // Launchpad S - velocity-encoded red/green
	DeviceTypeColorful DeviceType = "colorful" // Launchpad Mini Mk3 - RGB over SysEx
)

// PadColor represents an RGB color for a pad
type PadColor struct {
	R, G, B uint8 // 0-127 for each channel
}

// PadColorOf scales a 0-255 keypad color into the 0-127 pad range
func PadColorOf(c keypad.Color) PadColor {
	return PadColor{R: c.R >> 1, G: c.G >> 1, B: c.B >> 1}
}

// blockOrigin is the grid position of slot 0: the 4x4 keypad occupies the
// bottom-left corner of the 8x8 pad area (rows 5-8, cols 0-3).
const (
	blockTop  = 5
	blockLeft = 0
	blockSize = 4
)

// slotToGrid returns the (row, col) grid position of a keypad slot
func slotToGrid(slot int) (row, col int, ok bool) {
	if slot < 0 || slot >= keypad.NumKeys {
		return 0, 0, false
	}
	return blockTop + slot/blockSize, blockLeft + slot%blockSize, true
}

// gridToSlot is the inverse of slotToGrid, false outside the block
func gridToSlot(row, col int) (int, bool) {
	r, c := row-blockTop, col-blockLeft
	if r < 0 || r >= blockSize || c < 0 || c >= blockSize {
		return 0, false
	}
	return r*blockSize + c, true
}
