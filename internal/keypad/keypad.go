// Package keypad maps 4x4 pad presses to MIDI notes and DAW feedback to LED colors.
package keypad

import (
	"github.com/sirupsen/logrus"
)

// Default colors and velocity shared by every profile
var (
	DefaultActiveColor   = Color{R: 0, G: 255, B: 50}
	DefaultFeedbackColor = Color{R: 0, G: 0, B: 255}
	TapColor             = Color{R: 200, G: 200, B: 0}
)

const (
	DefaultVelocity   = 127
	DefaultController = 1
)

// Settings is the full parameter set of one keypad
type Settings struct {
	BaseNote          int
	Channel           Channel
	Velocity          uint8
	ActiveColor       Color
	FeedbackColor     Color
	Highlights        map[int]Color
	ControlController uint8
	ControlGroups     [NumControlGroups]KeyGroup
	Remap             []int // physical -> logical; nil means identity
}

// Keypad bundles the mappers, LED state and both controllers
type Keypad struct {
	Mapper   *KeyIndexMapper
	Notes    NoteMapper
	LEDs     *LedState
	Keys     *KeyEventController
	Feedback *FeedbackController
}

// New validates s and wires a Keypad sending through out
func New(s Settings, out Sender, log logrus.FieldLogger) (*Keypad, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	mapper := IdentityMapper()
	if s.Remap != nil {
		var err error
		if mapper, err = NewKeyIndexMapper(s.Remap); err != nil {
			return nil, err
		}
	}

	notes, err := NewNoteMapper(s.BaseNote)
	if err != nil {
		return nil, err
	}
	if _, err := NewChannel(int(s.Channel)); err != nil {
		return nil, err
	}
	if s.Velocity > 127 {
		return nil, ConfigError("velocity %d out of range 0-127", s.Velocity)
	}
	if s.ControlController > 127 {
		return nil, ConfigError("control controller %d out of range 0-127", s.ControlController)
	}
	for idx := range s.Highlights {
		if idx < 0 || idx >= NumKeys {
			return nil, ConfigError("highlight index %d out of range", idx)
		}
	}
	for g, group := range s.ControlGroups {
		for _, idx := range group {
			if idx < 0 || idx >= NumKeys {
				return nil, ConfigError("control group %d: index %d out of range", g, idx)
			}
		}
	}

	leds := NewLedState(mapper)
	return &Keypad{
		Mapper: mapper,
		Notes:  notes,
		LEDs:   leds,
		Keys:   NewKeyEventController(mapper, notes, leds, out, s.Velocity, s.ActiveColor, log),
		Feedback: NewFeedbackController(mapper, notes, leds, FeedbackOptions{
			Channel:       s.Channel,
			ActiveColor:   s.ActiveColor,
			FeedbackColor: s.FeedbackColor,
			Highlights:    s.Highlights,
			Controller:    s.ControlController,
			Groups:        s.ControlGroups,
		}, log),
	}, nil
}
