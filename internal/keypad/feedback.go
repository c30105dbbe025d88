package keypad

import "github.com/sirupsen/logrus"

// NumControlGroups is the number of groups addressable by control change values
const NumControlGroups = 4

// FeedbackController applies inbound DAW messages to the LED state
type FeedbackController struct {
	mapper     *KeyIndexMapper
	notes      NoteMapper
	leds       *LedState
	channel    Channel
	active     Color
	feedback   Color
	highlights map[int]Color
	controller uint8
	groups     [NumControlGroups]KeyGroup
	log        logrus.FieldLogger
}

// FeedbackOptions configures a FeedbackController
type FeedbackOptions struct {
	Channel       Channel
	ActiveColor   Color
	FeedbackColor Color
	Highlights    map[int]Color // logical index -> color override for note feedback
	Controller    uint8
	Groups        [NumControlGroups]KeyGroup
}

// NewFeedbackController wires a controller over a shared LedState
func NewFeedbackController(mapper *KeyIndexMapper, notes NoteMapper, leds *LedState,
	opts FeedbackOptions, log logrus.FieldLogger) *FeedbackController {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FeedbackController{
		mapper:     mapper,
		notes:      notes,
		leds:       leds,
		channel:    opts.Channel,
		active:     opts.ActiveColor,
		feedback:   opts.FeedbackColor,
		highlights: opts.Highlights,
		controller: opts.Controller,
		groups:     opts.Groups,
		log:        log,
	}
}

// Handle applies one inbound event. Messages for other channels, notes outside
// the pad and unknown controllers are dropped.
func (f *FeedbackController) Handle(ev InboundEvent) {
	if !f.channel.Matches(ev.Channel) {
		return
	}

	switch ev.Kind {
	case NoteOn:
		if ev.Velocity == 0 {
			f.noteOff(ev.Note)
			return
		}
		f.noteOn(ev.Note)
	case NoteOff:
		f.noteOff(ev.Note)
	case ControlChange:
		f.controlChange(ev.Controller, ev.Value)
	}
}

// ColorFor returns the note feedback color of a logical index
func (f *FeedbackController) ColorFor(index int) Color {
	if c, ok := f.highlights[index]; ok {
		return c
	}
	return f.active
}

func (f *FeedbackController) noteOn(note uint8) {
	slot, idx, ok := f.resolve(note)
	if !ok {
		return
	}
	f.leds.Set(slot, f.ColorFor(idx))
}

func (f *FeedbackController) noteOff(note uint8) {
	slot, _, ok := f.resolve(note)
	if !ok {
		return
	}
	f.leds.Clear(slot)
}

func (f *FeedbackController) resolve(note uint8) (slot, idx int, ok bool) {
	idx, ok = f.notes.IndexOf(note)
	if !ok {
		f.log.WithField("note", note).Debug("ignoring note outside pad")
		return 0, 0, false
	}
	slot, ok = f.mapper.PhysicalOf(idx)
	return slot, idx, ok
}

func (f *FeedbackController) controlChange(controller, value uint8) {
	if controller != f.controller {
		return
	}
	switch {
	case value < NumControlGroups:
		f.leds.SetGroup(f.groups[value], f.feedback)
	case value < 2*NumControlGroups:
		f.leds.ClearGroup(f.groups[value-NumControlGroups])
	default:
		f.log.WithFields(logrus.Fields{"cc": controller, "value": value}).Debug("ignoring control value")
	}
}
