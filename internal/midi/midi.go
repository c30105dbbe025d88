package midi

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver

	"github.com/PixPMusic/gopher-keypad/internal/keypad"
)

// Manager handles MIDI port discovery
type Manager struct {
	mu  sync.RWMutex
	log logrus.FieldLogger
}

// NewManager creates a new MIDI manager
func NewManager(log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{log: log}
}

// Close cleans up the MIDI driver
func (m *Manager) Close() {
	midi.CloseDriver()
}

// ListInPorts returns the names of available MIDI input ports
func (m *Manager) ListInPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ins := midi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// ListOutPorts returns the names of available MIDI output ports
func (m *Manager) ListOutPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outs := midi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

// GetInPort returns an input port by name, nil if absent
func (m *Manager) GetInPort(name string) drivers.In {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, in := range midi.GetInPorts() {
		if in.String() == name {
			return in
		}
	}
	return nil
}

// GetOutPort returns an output port by name, nil if absent
func (m *Manager) GetOutPort(name string) drivers.Out {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, out := range midi.GetOutPorts() {
		if out.String() == name {
			return out
		}
	}
	return nil
}

func (m *Manager) sender(name string) (func(midi.Message) error, error) {
	if name == "" {
		return nil, nil
	}
	outPort := m.GetOutPort(name)
	if outPort == nil {
		return nil, fmt.Errorf("output port not found: %s", name)
	}
	send, err := midi.SendTo(outPort)
	if err != nil {
		return nil, fmt.Errorf("failed to create sender: %w", err)
	}
	return send, nil
}

func (m *Manager) listen(name string, recv func(midi.Message, int32), onErr func(error)) (func(), error) {
	if name == "" {
		return nil, nil
	}
	inPort := m.GetInPort(name)
	if inPort == nil {
		return nil, fmt.Errorf("input port not found: %s", name)
	}
	stop, err := midi.ListenTo(inPort, recv, midi.HandleError(onErr))
	if err != nil {
		return nil, fmt.Errorf("failed to start listening: %w", err)
	}
	return stop, nil
}

// OpenTransport connects to the DAW-facing ports. Either name may be empty.
func (m *Manager) OpenTransport(inName, outName string, channel keypad.Channel) (*Transport, error) {
	send, err := m.sender(outName)
	if err != nil {
		return nil, keypad.TransportError(err, "open transport")
	}

	t := NewTransport(send, channel, m.log.WithField("port", inName))
	stop, err := m.listen(inName, t.Deliver, t.fail)
	if err != nil {
		return nil, keypad.TransportError(err, "open transport")
	}
	t.stop = stop

	m.log.WithFields(logrus.Fields{"in": inName, "out": outName, "channel": channel}).Info("DAW transport open")
	return t, nil
}

// OpenGrid puts a Launchpad into programmer mode and listens for pad presses
func (m *Manager) OpenGrid(inName, outName string, deviceType DeviceType) (*GridKeypad, error) {
	device := GetDevice(deviceType)

	send, err := m.sender(outName)
	if err != nil {
		return nil, keypad.TransportError(err, "open grid")
	}
	if send != nil {
		if err := device.ActivateProgrammerMode(send); err != nil {
			return nil, keypad.TransportError(err, "open grid")
		}
	}

	log := m.log.WithFields(logrus.Fields{"device": inName, "type": deviceType})
	g := NewGridKeypad(device, send, log)
	stop, err := m.listen(inName, g.Deliver, func(err error) {
		log.WithError(err).Warn("pad listener error")
	})
	if err != nil {
		return nil, keypad.TransportError(err, "open grid")
	}
	g.stop = stop

	log.Info("grid keypad open")
	return g, nil
}
