package keypad

import "strings"

// rotate90Physical lists, per logical index, the physical slot of a pad
// turned 90° counter-clockwise (USB port on the left).
var rotate90Physical = [NumKeys]int{
	3, 7, 11, 15,
	2, 6, 10, 14,
	1, 5, 9, 13,
	0, 4, 8, 12,
}

// KeyIndexMapper translates between physical slots and logical indices.
// It is immutable once built.
type KeyIndexMapper struct {
	logical  [NumKeys]int // physical -> logical
	physical [NumKeys]int // logical -> physical, derived
}

// NewKeyIndexMapper builds a mapper from a physical->logical permutation of 0..NumKeys-1
func NewKeyIndexMapper(logicalOf []int) (*KeyIndexMapper, error) {
	if len(logicalOf) != NumKeys {
		return nil, ConfigError("remap table has %d entries, want %d", len(logicalOf), NumKeys)
	}

	m := &KeyIndexMapper{}
	var seen [NumKeys]bool
	for slot, idx := range logicalOf {
		if idx < 0 || idx >= NumKeys {
			return nil, ConfigError("remap table: slot %d maps to %d, out of range", slot, idx)
		}
		if seen[idx] {
			return nil, ConfigError("remap table: logical index %d assigned twice", idx)
		}
		seen[idx] = true
		m.logical[slot] = idx
		m.physical[idx] = slot
	}
	return m, nil
}

// IdentityMapper returns the unrotated mapping
func IdentityMapper() *KeyIndexMapper {
	m := &KeyIndexMapper{}
	for i := 0; i < NumKeys; i++ {
		m.logical[i] = i
		m.physical[i] = i
	}
	return m
}

// Rotate90Mapper returns the mapping for a pad rotated 90° counter-clockwise
func Rotate90Mapper() *KeyIndexMapper {
	m := &KeyIndexMapper{}
	for idx, slot := range rotate90Physical {
		m.physical[idx] = slot
		m.logical[slot] = idx
	}
	return m
}

// ParseRemap resolves a named remap preset
func ParseRemap(name string) (*KeyIndexMapper, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "identity":
		return IdentityMapper(), nil
	case "rotate90":
		return Rotate90Mapper(), nil
	}
	return nil, ConfigError("unknown remap preset %q", name)
}

// LogicalOf returns the logical index of a physical slot
func (m *KeyIndexMapper) LogicalOf(slot int) (int, bool) {
	if slot < 0 || slot >= NumKeys {
		return 0, false
	}
	return m.logical[slot], true
}

// PhysicalOf returns the physical slot of a logical index
func (m *KeyIndexMapper) PhysicalOf(index int) (int, bool) {
	if index < 0 || index >= NumKeys {
		return 0, false
	}
	return m.physical[index], true
}

// Table returns a copy of the physical->logical table
func (m *KeyIndexMapper) Table() []int {
	out := make([]int, NumKeys)
	copy(out, m.logical[:])
	return out
}
