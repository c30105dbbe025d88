package keypad

import (
	"fmt"
	"strconv"
	"strings"
)

// NoteMapper maps logical indices onto a contiguous block of MIDI notes
type NoteMapper struct {
	base int
}

// NewNoteMapper validates that base..base+NumKeys-1 fits in the MIDI note range
func NewNoteMapper(base int) (NoteMapper, error) {
	if base < 0 || base+NumKeys-1 > 127 {
		return NoteMapper{}, ConfigError("base note %d out of range 0-%d", base, 127-(NumKeys-1))
	}
	return NoteMapper{base: base}, nil
}

// Base returns the note of logical index 0
func (n NoteMapper) Base() int {
	return n.base
}

// NoteOf returns the MIDI note for a logical index
func (n NoteMapper) NoteOf(index int) uint8 {
	return uint8(n.base + index)
}

// IndexOf returns the logical index for a note, false if the note is outside the pad
func (n NoteMapper) IndexOf(note uint8) (int, bool) {
	idx := int(note) - n.base
	if idx < 0 || idx >= NumKeys {
		return 0, false
	}
	return idx, true
}

// ChannelAll accepts messages on every channel
const ChannelAll Channel = -1

// Channel is a MIDI channel 0-15 or ChannelAll
type Channel int

// ParseChannel accepts "all" or a channel number 0-15
func ParseChannel(s string) (Channel, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "all" || s == "any" {
		return ChannelAll, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ConfigError("invalid channel %q", s)
	}
	return NewChannel(n)
}

// NewChannel validates a numeric channel, -1 meaning all
func NewChannel(n int) (Channel, error) {
	if n < -1 || n > 15 {
		return 0, ConfigError("channel %d out of range 0-15", n)
	}
	return Channel(n), nil
}

// Matches reports whether an event on ch passes the filter
func (c Channel) Matches(ch uint8) bool {
	return c == ChannelAll || uint8(c) == ch
}

// Out returns the channel used to tag outbound messages
func (c Channel) Out() uint8 {
	if c == ChannelAll {
		return 0
	}
	return uint8(c)
}

func (c Channel) String() string {
	if c == ChannelAll {
		return "all"
	}
	return fmt.Sprintf("%d", int(c))
}
