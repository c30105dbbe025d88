package keypad

import "sort"

// Profile names
const (
	ProfileBasic    = "basic"
	ProfileSingle   = "single"
	ProfileRemapped = "remapped"
)

// columnGroups are the three-key columns lit by control change, highest index first
var columnGroups = [NumControlGroups]KeyGroup{
	{3, 2, 1},
	{7, 6, 5},
	{11, 10, 9},
	{15, 14, 13},
}

// Profile returns the settings of a named profile
func Profile(name string) (Settings, error) {
	switch name {
	case ProfileBasic:
		return Settings{
			BaseNote:          36,
			Channel:           ChannelAll,
			Velocity:          DefaultVelocity,
			ActiveColor:       DefaultActiveColor,
			FeedbackColor:     DefaultFeedbackColor,
			ControlController: DefaultController,
		}, nil
	case ProfileSingle:
		return Settings{
			BaseNote:          0,
			Channel:           ChannelAll,
			Velocity:          DefaultVelocity,
			ActiveColor:       DefaultActiveColor,
			FeedbackColor:     DefaultFeedbackColor,
			Highlights:        tapBank(),
			ControlController: DefaultController,
			ControlGroups:     columnGroups,
		}, nil
	case ProfileRemapped:
		s, _ := Profile(ProfileSingle)
		s.Channel = 1
		s.Remap = Rotate90Mapper().Table()
		return s, nil
	}
	return Settings{}, ConfigError("unknown profile %q", name)
}

// Profiles lists the profile names
func Profiles() []string {
	names := []string{ProfileBasic, ProfileSingle, ProfileRemapped}
	sort.Strings(names)
	return names
}

// tapBank highlights the 13 tap keys 0..12
func tapBank() map[int]Color {
	m := make(map[int]Color, 13)
	for i := 0; i <= 12; i++ {
		m[i] = TapColor
	}
	return m
}
