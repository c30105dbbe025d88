package midi

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"

	"github.com/PixPMusic/gopher-keypad/internal/keypad"
)

// inboundBuffer is how many DAW messages may queue between two loop iterations
const inboundBuffer = 256

var errNoOutPort = errors.New("no output port")

// Transport is the DAW-facing MIDI link. Send is fire-and-forget; Receive never
// blocks. The driver callback only queues events, the poll loop consumes them.
type Transport struct {
	send    func(midi.Message) error
	stop    func()
	channel keypad.Channel
	events  chan keypad.InboundEvent
	log     logrus.FieldLogger

	mu      sync.Mutex
	lastErr error
	dropped int
}

// NewTransport wraps a sender. Inbound messages arrive through Deliver.
func NewTransport(send func(midi.Message) error, channel keypad.Channel, log logrus.FieldLogger) *Transport {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Transport{
		send:    send,
		channel: channel,
		events:  make(chan keypad.InboundEvent, inboundBuffer),
		log:     log,
	}
}

// Send tags ev with the configured channel and writes it out
func (t *Transport) Send(ev keypad.OutboundEvent) error {
	if t.send == nil {
		return keypad.TransportError(errNoOutPort, "send")
	}
	return keypad.TransportError(t.send(EncodeMessage(ev, t.channel.Out())), "send")
}

// Receive returns the next queued event, or ok=false when none is waiting.
// A listener error is reported once.
func (t *Transport) Receive() (ev keypad.InboundEvent, ok bool, err error) {
	t.mu.Lock()
	err, t.lastErr = t.lastErr, nil
	t.mu.Unlock()
	if err != nil {
		return keypad.InboundEvent{}, false, keypad.TransportError(err, "receive")
	}

	select {
	case ev = <-t.events:
		return ev, true, nil
	default:
		return keypad.InboundEvent{}, false, nil
	}
}

// Deliver is the listener callback; it runs on the driver goroutine
func (t *Transport) Deliver(msg midi.Message, _ int32) {
	ev, ok := ParseMessage(msg)
	if !ok {
		return
	}
	select {
	case t.events <- ev:
	default:
		t.mu.Lock()
		t.dropped++
		n := t.dropped
		t.mu.Unlock()
		t.log.WithField("dropped", n).Warn("inbound MIDI queue full, dropping message")
	}
}

func (t *Transport) fail(err error) {
	t.mu.Lock()
	t.lastErr = err
	t.mu.Unlock()
}

// Close stops the listener
func (t *Transport) Close() {
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}
