package keypad_test

import (
	"errors"
	"io"
	"testing"

	"github.com/PixPMusic/gopher-keypad/internal/keypad"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	sent []keypad.OutboundEvent
	err  error
}

func (r *recorder) Send(ev keypad.OutboundEvent) error {
	r.sent = append(r.sent, ev)
	return r.err
}

type sink struct {
	applied map[int]keypad.Color
	calls   int
	fail    map[int]bool
}

func newSink() *sink {
	return &sink{applied: map[int]keypad.Color{}, fail: map[int]bool{}}
}

func (s *sink) Apply(slot int, c keypad.Color) error {
	s.calls++
	if s.fail[slot] {
		return errors.New("led write failed")
	}
	s.applied[slot] = c
	return nil
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newKeypad(t *testing.T, s keypad.Settings) (*keypad.Keypad, *recorder) {
	t.Helper()
	out := &recorder{}
	kp, err := keypad.New(s, out, quietLogger())
	require.NoError(t, err)
	return kp, out
}

func baseSettings() keypad.Settings {
	return keypad.Settings{
		BaseNote:          0,
		Channel:           keypad.ChannelAll,
		Velocity:          127,
		ActiveColor:       keypad.DefaultActiveColor,
		FeedbackColor:     keypad.DefaultFeedbackColor,
		ControlController: 1,
		ControlGroups: [keypad.NumControlGroups]keypad.KeyGroup{
			{1, 2, 3}, {5, 6, 7}, {9, 10, 11}, {13, 14, 15},
		},
	}
}

func TestKeyEventController(t *testing.T) {
	t.Run("press then release emits note on and off without touching the LED on release", func(t *testing.T) {
		s := baseSettings()
		s.Remap = keypad.Rotate90Mapper().Table()
		kp, out := newKeypad(t, s)

		slot := 7
		logical, _ := kp.Mapper.LogicalOf(slot)
		note := kp.Notes.NoteOf(logical)

		require.NoError(t, kp.Keys.Handle(keypad.KeyEdge{Slot: slot, Edge: keypad.Pressed}))
		require.Equal(t, keypad.DefaultActiveColor, kp.LEDs.Color(slot))
		require.True(t, kp.Keys.Pressed(slot))

		require.NoError(t, kp.Keys.Handle(keypad.KeyEdge{Slot: slot, Edge: keypad.Released}))
		require.Equal(t, keypad.DefaultActiveColor, kp.LEDs.Color(slot))
		require.False(t, kp.Keys.Pressed(slot))

		require.Equal(t, []keypad.OutboundEvent{
			{Kind: keypad.NoteOn, Note: note, Velocity: 127},
			{Kind: keypad.NoteOff, Note: note, Velocity: 0},
		}, out.sent)
	})

	t.Run("repeated identical edges are no-ops", func(t *testing.T) {
		kp, out := newKeypad(t, baseSettings())

		require.NoError(t, kp.Keys.Handle(keypad.KeyEdge{Slot: 2, Edge: keypad.Released}))
		require.NoError(t, kp.Keys.Handle(keypad.KeyEdge{Slot: 2, Edge: keypad.Pressed}))
		require.NoError(t, kp.Keys.Handle(keypad.KeyEdge{Slot: 2, Edge: keypad.Pressed}))
		require.Len(t, out.sent, 1)
	})

	t.Run("unknown slots are ignored", func(t *testing.T) {
		kp, out := newKeypad(t, baseSettings())
		require.NoError(t, kp.Keys.Handle(keypad.KeyEdge{Slot: 16, Edge: keypad.Pressed}))
		require.Empty(t, out.sent)
	})

	t.Run("send failures are tagged and state still advances", func(t *testing.T) {
		kp, out := newKeypad(t, baseSettings())
		out.err = errors.New("usb gone")

		err := kp.Keys.Handle(keypad.KeyEdge{Slot: 4, Edge: keypad.Pressed})
		require.Error(t, err)
		require.True(t, keypad.IsTransportUnavailable(err))
		require.True(t, kp.Keys.Pressed(4))
		require.Equal(t, keypad.DefaultActiveColor, kp.LEDs.Color(4))
	})
}

func TestFeedbackController(t *testing.T) {
	t.Run("velocity zero has the same effect as note off", func(t *testing.T) {
		s := baseSettings()
		s.Remap = keypad.Rotate90Mapper().Table()

		for slot := 0; slot < keypad.NumKeys; slot++ {
			a, _ := newKeypad(t, s)
			b, _ := newKeypad(t, s)
			logical, _ := a.Mapper.LogicalOf(slot)
			note := a.Notes.NoteOf(logical)

			for _, kp := range []*keypad.Keypad{a, b} {
				kp.Feedback.Handle(keypad.InboundEvent{Kind: keypad.NoteOn, Note: note, Velocity: 100})
				require.True(t, kp.LEDs.Lit(slot))
			}
			a.Feedback.Handle(keypad.InboundEvent{Kind: keypad.NoteOn, Note: note, Velocity: 0})
			b.Feedback.Handle(keypad.InboundEvent{Kind: keypad.NoteOff, Note: note})

			require.Equal(t, b.LEDs.Snapshot(), a.LEDs.Snapshot())
			require.Equal(t, keypad.Off, a.LEDs.Color(slot))
		}
	})

	t.Run("note on lights the rotated slot with the highlight color", func(t *testing.T) {
		s := baseSettings()
		s.Remap = keypad.Rotate90Mapper().Table()
		s.Highlights = map[int]keypad.Color{0: keypad.TapColor}
		kp, _ := newKeypad(t, s)

		kp.Feedback.Handle(keypad.InboundEvent{Kind: keypad.NoteOn, Note: 0, Velocity: 127})
		require.Equal(t, keypad.TapColor, kp.LEDs.Color(3))

		kp.Feedback.Handle(keypad.InboundEvent{Kind: keypad.NoteOn, Note: 15, Velocity: 127})
		require.Equal(t, keypad.DefaultActiveColor, kp.LEDs.Color(12))
	})

	t.Run("notes outside the pad are ignored", func(t *testing.T) {
		s := baseSettings()
		s.BaseNote = 36
		kp, _ := newKeypad(t, s)

		kp.Feedback.Handle(keypad.InboundEvent{Kind: keypad.NoteOn, Note: 35, Velocity: 127})
		kp.Feedback.Handle(keypad.InboundEvent{Kind: keypad.NoteOn, Note: 52, Velocity: 127})
		require.Equal(t, [keypad.NumKeys]keypad.Color{}, kp.LEDs.Snapshot())
	})

	t.Run("single channel mode drops other channels", func(t *testing.T) {
		s := baseSettings()
		s.Channel = 1
		kp, _ := newKeypad(t, s)

		kp.Feedback.Handle(keypad.InboundEvent{Kind: keypad.NoteOn, Channel: 0, Note: 4, Velocity: 127})
		require.False(t, kp.LEDs.Lit(4))
		kp.Feedback.Handle(keypad.InboundEvent{Kind: keypad.NoteOn, Channel: 1, Note: 4, Velocity: 127})
		require.True(t, kp.LEDs.Lit(4))
	})

	t.Run("control change sets and clears one group only", func(t *testing.T) {
		kp, _ := newKeypad(t, baseSettings())
		cc := func(v uint8) {
			kp.Feedback.Handle(keypad.InboundEvent{Kind: keypad.ControlChange, Controller: 1, Value: v})
		}

		cc(1)
		cc(0)
		for _, slot := range []int{1, 2, 3} {
			require.Equal(t, keypad.DefaultFeedbackColor, kp.LEDs.Color(slot))
		}

		cc(4)
		for _, slot := range []int{1, 2, 3} {
			require.Equal(t, keypad.Off, kp.LEDs.Color(slot))
		}
		for _, slot := range []int{5, 6, 7} {
			require.Equal(t, keypad.DefaultFeedbackColor, kp.LEDs.Color(slot))
		}
		for _, slot := range []int{0, 4, 8, 9, 10, 11, 12, 13, 14, 15} {
			require.Equal(t, keypad.Off, kp.LEDs.Color(slot))
		}
	})

	t.Run("other controllers and values are ignored", func(t *testing.T) {
		kp, _ := newKeypad(t, baseSettings())
		kp.Feedback.Handle(keypad.InboundEvent{Kind: keypad.ControlChange, Controller: 2, Value: 0})
		kp.Feedback.Handle(keypad.InboundEvent{Kind: keypad.ControlChange, Controller: 1, Value: 8})
		kp.Feedback.Handle(keypad.InboundEvent{Kind: keypad.ControlChange, Controller: 1, Value: 127})
		require.Equal(t, [keypad.NumKeys]keypad.Color{}, kp.LEDs.Snapshot())
	})
}

func TestEndToEnd(t *testing.T) {
	kp, out := newKeypad(t, baseSettings())

	require.NoError(t, kp.Keys.Handle(keypad.KeyEdge{Slot: 5, Edge: keypad.Pressed}))
	require.Equal(t, []keypad.OutboundEvent{{Kind: keypad.NoteOn, Note: 5, Velocity: 127}}, out.sent)
	require.Equal(t, keypad.DefaultActiveColor, kp.LEDs.Color(5))

	require.NoError(t, kp.Keys.Handle(keypad.KeyEdge{Slot: 5, Edge: keypad.Released}))
	require.Equal(t, keypad.OutboundEvent{Kind: keypad.NoteOff, Note: 5}, out.sent[1])
	require.Equal(t, keypad.DefaultActiveColor, kp.LEDs.Color(5))

	kp.Feedback.Handle(keypad.InboundEvent{Kind: keypad.NoteOn, Note: 5, Velocity: 0})
	require.Equal(t, keypad.Off, kp.LEDs.Color(5))
}

func TestLedState(t *testing.T) {
	t.Run("flush pushes everything once then only changes", func(t *testing.T) {
		leds := keypad.NewLedState(keypad.IdentityMapper())
		s := newSink()

		require.NoError(t, leds.Flush(s))
		require.Equal(t, keypad.NumKeys, s.calls)

		leds.Set(3, keypad.TapColor)
		require.NoError(t, leds.Flush(s))
		require.Equal(t, keypad.NumKeys+1, s.calls)
		require.Equal(t, keypad.TapColor, s.applied[3])

		require.NoError(t, leds.Flush(s))
		require.Equal(t, keypad.NumKeys+1, s.calls)
	})

	t.Run("failed writes are retried on the next flush", func(t *testing.T) {
		leds := keypad.NewLedState(keypad.IdentityMapper())
		s := newSink()
		require.NoError(t, leds.Flush(s))

		s.fail[2] = true
		leds.Set(2, keypad.TapColor)
		require.Error(t, leds.Flush(s))

		s.fail[2] = false
		require.NoError(t, leds.Flush(s))
		require.Equal(t, keypad.TapColor, s.applied[2])
	})

	t.Run("group writes go through the remap", func(t *testing.T) {
		leds := keypad.NewLedState(keypad.Rotate90Mapper())
		leds.SetGroup([]int{3, 2, 1}, keypad.DefaultFeedbackColor)
		for _, slot := range []int{15, 11, 7} {
			require.Equal(t, keypad.DefaultFeedbackColor, leds.Color(slot))
		}
		leds.ClearGroup([]int{3, 2, 1})
		require.Equal(t, [keypad.NumKeys]keypad.Color{}, leds.Snapshot())
	})
}

func TestNew(t *testing.T) {
	t.Run("builds every profile", func(t *testing.T) {
		for _, name := range keypad.Profiles() {
			s, err := keypad.Profile(name)
			require.NoError(t, err)
			_, err = keypad.New(s, &recorder{}, quietLogger())
			require.NoError(t, err, name)
		}
	})

	t.Run("rejects bad settings as config errors", func(t *testing.T) {
		cases := map[string]func(*keypad.Settings){
			"remap":     func(s *keypad.Settings) { s.Remap = []int{0, 0} },
			"base note": func(s *keypad.Settings) { s.BaseNote = 120 },
			"channel":   func(s *keypad.Settings) { s.Channel = 16 },
			"velocity":  func(s *keypad.Settings) { s.Velocity = 200 },
			"highlight": func(s *keypad.Settings) { s.Highlights = map[int]keypad.Color{16: keypad.TapColor} },
			"group":     func(s *keypad.Settings) { s.ControlGroups[2] = keypad.KeyGroup{-1} },
		}
		for name, mutate := range cases {
			s := baseSettings()
			mutate(&s)
			kp, err := keypad.New(s, &recorder{}, quietLogger())
			require.Nil(t, kp, name)
			require.True(t, keypad.IsConfigError(err), name)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := keypad.Profile("launchpad")
		require.True(t, keypad.IsConfigError(err))
	})

	t.Run("remapped profile listens on channel 1", func(t *testing.T) {
		s, err := keypad.Profile(keypad.ProfileRemapped)
		require.NoError(t, err)
		require.Equal(t, keypad.Channel(1), s.Channel)
		require.Equal(t, keypad.Rotate90Mapper().Table(), s.Remap)
		require.Equal(t, keypad.TapColor, s.Highlights[12])
		_, ok := s.Highlights[13]
		require.False(t, ok)
	})
}
