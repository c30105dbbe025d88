package config

import (
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/PixPMusic/gopher-keypad/internal/keypad"
)

// KeypadConfig overrides profile settings. Unset fields keep the profile value.
type KeypadConfig struct {
	BaseNote          *int          `json:"base_note,omitempty" yaml:"base_note,omitempty"`
	Channel           *ChannelValue `json:"channel,omitempty" yaml:"channel,omitempty"`
	Velocity          *int          `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	ActiveColor       *RGB          `json:"active_color,omitempty" yaml:"active_color,omitempty"`
	FeedbackColor     *RGB          `json:"feedback_color,omitempty" yaml:"feedback_color,omitempty"`
	HighlightGroups   map[int]RGB   `json:"highlight_groups,omitempty" yaml:"highlight_groups,omitempty"`
	ControlController *int          `json:"control_controller,omitempty" yaml:"control_controller,omitempty"`
	ControlGroups     [][]int       `json:"control_groups,omitempty" yaml:"control_groups,omitempty"`
	Remap             *RemapValue   `json:"remap,omitempty" yaml:"remap,omitempty"`
}

// RGB is a color as written in the config file (0-255 per channel)
type RGB struct {
	R int `json:"r" yaml:"r"`
	G int `json:"g" yaml:"g"`
	B int `json:"b" yaml:"b"`
}

func (c RGB) color(field string) (keypad.Color, error) {
	for _, v := range []int{c.R, c.G, c.B} {
		if v < 0 || v > 255 {
			return keypad.Color{}, keypad.ConfigError("%s: component %d out of range 0-255", field, v)
		}
	}
	return keypad.Color{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B)}, nil
}

// ChannelValue is a MIDI channel number or "all"
type ChannelValue struct {
	keypad.Channel
}

func (c *ChannelValue) set(raw string) error {
	ch, err := keypad.ParseChannel(raw)
	if err != nil {
		return err
	}
	c.Channel = ch
	return nil
}

func (c *ChannelValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return c.set(s)
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return keypad.ConfigError("channel must be a number or \"all\"")
	}
	return c.set(strconv.Itoa(n))
}

func (c ChannelValue) MarshalJSON() ([]byte, error) {
	if c.Channel == keypad.ChannelAll {
		return json.Marshal("all")
	}
	return json.Marshal(int(c.Channel))
}

func (c *ChannelValue) UnmarshalYAML(node *yaml.Node) error {
	return c.set(node.Value)
}

func (c ChannelValue) MarshalYAML() (any, error) {
	if c.Channel == keypad.ChannelAll {
		return "all", nil
	}
	return int(c.Channel), nil
}

// RemapValue is a preset name ("identity", "rotate90") or a physical->logical table
type RemapValue struct {
	Preset string
	Table  []int
}

func (r *RemapValue) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.Preset); err == nil {
		return nil
	}
	r.Preset = ""
	return json.Unmarshal(data, &r.Table)
}

func (r RemapValue) MarshalJSON() ([]byte, error) {
	if r.Table != nil {
		return json.Marshal(r.Table)
	}
	return json.Marshal(r.Preset)
}

func (r *RemapValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Preset = node.Value
		return nil
	}
	return node.Decode(&r.Table)
}

func (r RemapValue) MarshalYAML() (any, error) {
	if r.Table != nil {
		return r.Table, nil
	}
	return r.Preset, nil
}

func (r RemapValue) mapper() (*keypad.KeyIndexMapper, error) {
	if r.Table != nil {
		return keypad.NewKeyIndexMapper(r.Table)
	}
	return keypad.ParseRemap(r.Preset)
}

func (k KeypadConfig) apply(s *keypad.Settings) error {
	if k.BaseNote != nil {
		s.BaseNote = *k.BaseNote
	}
	if k.Channel != nil {
		s.Channel = k.Channel.Channel
	}
	if k.Velocity != nil {
		if *k.Velocity < 0 || *k.Velocity > 127 {
			return keypad.ConfigError("velocity %d out of range 0-127", *k.Velocity)
		}
		s.Velocity = uint8(*k.Velocity)
	}
	if k.ActiveColor != nil {
		c, err := k.ActiveColor.color("active_color")
		if err != nil {
			return err
		}
		s.ActiveColor = c
	}
	if k.FeedbackColor != nil {
		c, err := k.FeedbackColor.color("feedback_color")
		if err != nil {
			return err
		}
		s.FeedbackColor = c
	}
	if k.HighlightGroups != nil {
		s.Highlights = make(map[int]keypad.Color, len(k.HighlightGroups))
		for idx, rgb := range k.HighlightGroups {
			c, err := rgb.color("highlight_groups")
			if err != nil {
				return err
			}
			s.Highlights[idx] = c
		}
	}
	if k.ControlController != nil {
		if *k.ControlController < 0 || *k.ControlController > 127 {
			return keypad.ConfigError("control_controller %d out of range 0-127", *k.ControlController)
		}
		s.ControlController = uint8(*k.ControlController)
	}
	if k.ControlGroups != nil {
		if len(k.ControlGroups) != keypad.NumControlGroups {
			return keypad.ConfigError("control_groups has %d groups, want %d", len(k.ControlGroups), keypad.NumControlGroups)
		}
		for i, g := range k.ControlGroups {
			s.ControlGroups[i] = keypad.KeyGroup(g)
		}
	}
	if k.Remap != nil {
		m, err := k.Remap.mapper()
		if err != nil {
			return err
		}
		s.Remap = m.Table()
	}
	return nil
}
