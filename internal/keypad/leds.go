package keypad

// LedState is the desired LED color per physical slot.
//
// It has a single writer: both controllers and the flush step run on the poll
// loop goroutine, so there is no locking. Colors are stored by value, so a write
// replaces all three channels at once.
type LedState struct {
	mapper  *KeyIndexMapper
	colors  [NumKeys]Color
	lit     [NumKeys]bool
	flushed [NumKeys]Color
	dirty   [NumKeys]bool
}

// NewLedState returns an all-off state. The first Flush pushes every key.
func NewLedState(mapper *KeyIndexMapper) *LedState {
	l := &LedState{mapper: mapper}
	for i := range l.dirty {
		l.dirty[i] = true
	}
	return l
}

// Set colors a physical slot. Out-of-range slots are ignored.
func (l *LedState) Set(slot int, c Color) {
	if slot < 0 || slot >= NumKeys {
		return
	}
	l.colors[slot] = c
	l.lit[slot] = c != Off
	if c != l.flushed[slot] {
		l.dirty[slot] = true
	}
}

// Clear turns a physical slot off
func (l *LedState) Clear(slot int) {
	l.Set(slot, Off)
}

// SetGroup colors every key of a group of logical indices
func (l *LedState) SetGroup(indices []int, c Color) {
	for _, idx := range indices {
		if slot, ok := l.mapper.PhysicalOf(idx); ok {
			l.Set(slot, c)
		}
	}
}

// ClearGroup turns off every key of a group of logical indices
func (l *LedState) ClearGroup(indices []int) {
	l.SetGroup(indices, Off)
}

// Color returns the current color of a physical slot
func (l *LedState) Color(slot int) Color {
	if slot < 0 || slot >= NumKeys {
		return Off
	}
	return l.colors[slot]
}

// Lit reports whether a physical slot currently shows a color
func (l *LedState) Lit(slot int) bool {
	if slot < 0 || slot >= NumKeys {
		return false
	}
	return l.lit[slot]
}

// Snapshot returns a copy of every slot's color
func (l *LedState) Snapshot() [NumKeys]Color {
	return l.colors
}

// Flush applies changed slots to the sink. A slot whose Apply fails stays
// pending for the next flush; the first error is returned.
func (l *LedState) Flush(sink LEDSink) error {
	var firstErr error
	for slot := 0; slot < NumKeys; slot++ {
		if !l.dirty[slot] {
			continue
		}
		c := l.colors[slot]
		if err := sink.Apply(slot, c); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		l.flushed[slot] = c
		l.dirty[slot] = false
	}
	return firstErr
}
