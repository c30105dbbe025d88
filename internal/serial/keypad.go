package serial

import (
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	bugst "go.bug.st/serial"

	"github.com/PixPMusic/gopher-keypad/internal/keypad"
)

const edgeBuffer = 64

// Keypad reads key edges from and writes LED colors to a Keybow over serial
type Keypad struct {
	port  io.ReadWriteCloser
	edges chan keypad.KeyEdge
	log   logrus.FieldLogger

	mu      sync.Mutex
	readErr error
	closed  bool
}

// Open opens the named serial device at the given baud rate
func Open(name string, baud int, log logrus.FieldLogger) (*Keypad, error) {
	p, err := bugst.Open(name, &bugst.Mode{BaudRate: baud})
	if err != nil {
		return nil, keypad.TransportError(err, "open serial "+name)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithFields(logrus.Fields{"device": name, "baud": baud})
	log.Info("serial keypad open")
	return NewKeypad(p, log), nil
}

// NewKeypad starts reading frames from port
func NewKeypad(port io.ReadWriteCloser, log logrus.FieldLogger) *Keypad {
	if log == nil {
		log = logrus.StandardLogger()
	}
	k := &Keypad{
		port:  port,
		edges: make(chan keypad.KeyEdge, edgeBuffer),
		log:   log,
	}
	go k.read()
	return k
}

func (k *Keypad) read() {
	var dec Decoder
	buf := make([]byte, 128)
	for {
		n, err := k.port.Read(buf)
		for _, f := range dec.Feed(buf[:n]) {
			edge, ok := f.KeyEdge()
			if !ok {
				k.log.WithField("cmd", f.Cmd).Debug("ignoring frame")
				continue
			}
			select {
			case k.edges <- edge:
			default:
				k.log.WithField("slot", edge.Slot).Warn("key queue full, dropping edge")
			}
		}
		if err != nil {
			k.mu.Lock()
			if !k.closed {
				k.readErr = err
			}
			k.mu.Unlock()
			return
		}
	}
}

// Poll drains the edges received since the last call. A read failure is
// reported once; after it no more edges arrive.
func (k *Keypad) Poll() ([]keypad.KeyEdge, error) {
	k.mu.Lock()
	err := k.readErr
	k.readErr = nil
	k.mu.Unlock()

	var out []keypad.KeyEdge
drain:
	for {
		select {
		case e := <-k.edges:
			out = append(out, e)
		default:
			break drain
		}
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return out, keypad.TransportError(err, "serial read")
}

// Apply writes one slot's color
func (k *Keypad) Apply(slot int, c keypad.Color) error {
	_, err := k.port.Write(LEDFrame(slot, c).Encode())
	return keypad.TransportError(err, "serial write")
}

// Close closes the underlying serial port
func (k *Keypad) Close() error {
	k.mu.Lock()
	k.closed = true
	k.mu.Unlock()
	k.log.Info("closing serial keypad")
	return k.port.Close()
}
