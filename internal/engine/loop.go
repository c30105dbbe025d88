// Package engine runs the keypad poll loop.
package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/PixPMusic/gopher-keypad/internal/keypad"
)

// DefaultInterval is the pause between loop iterations
const DefaultInterval = 10 * time.Millisecond

// KeyInput reports physical key transitions
type KeyInput interface {
	Poll() ([]keypad.KeyEdge, error)
}

// Receiver returns the next inbound MIDI event without blocking
type Receiver interface {
	Receive() (keypad.InboundEvent, bool, error)
}

// Loop owns the keypad state; everything it calls runs on the goroutine
// executing Run or Step.
type Loop struct {
	pad      *keypad.Keypad
	input    KeyInput
	midiIn   Receiver
	leds     keypad.LEDSink
	interval time.Duration
	log      logrus.FieldLogger
}

// New creates a loop
func New(pad *keypad.Keypad, input KeyInput, midiIn Receiver, leds keypad.LEDSink, log logrus.FieldLogger) *Loop {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loop{
		pad:      pad,
		input:    input,
		midiIn:   midiIn,
		leds:     leds,
		interval: DefaultInterval,
		log:      log,
	}
}

// SetInterval changes the pause between iterations
func (l *Loop) SetInterval(d time.Duration) {
	l.interval = d
}

// Step runs one iteration: apply pending key edges, apply at most one inbound
// message, flush LEDs. Transport errors are logged and the iteration goes on.
func (l *Loop) Step() {
	edges, err := l.input.Poll()
	if err != nil {
		l.log.WithError(err).Warn("key input unavailable")
	}
	for _, e := range edges {
		if err := l.pad.Keys.Handle(e); err != nil {
			l.log.WithError(err).WithField("slot", e.Slot).Warn("key event not sent")
		}
	}

	if l.midiIn != nil {
		ev, ok, err := l.midiIn.Receive()
		switch {
		case err != nil:
			l.log.WithError(err).Warn("MIDI receive failed")
		case ok:
			l.pad.Feedback.Handle(ev)
		}
	}

	if l.leds != nil {
		if err := l.pad.LEDs.Flush(l.leds); err != nil {
			l.log.WithError(err).Warn("LED flush failed")
		}
	}
}

// Run steps until ctx is done
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.Step()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Step()
		}
	}
}
