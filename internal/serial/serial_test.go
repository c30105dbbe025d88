package serial_test

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/PixPMusic/gopher-keypad/internal/keypad"
	"github.com/PixPMusic/gopher-keypad/internal/serial"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func edgeFrame(slot int, pressed bool) []byte {
	var e byte
	if pressed {
		e = 1
	}
	return serial.Frame{Cmd: serial.CmdKeyEdge, Payload: []byte{byte(slot), e}}.Encode()
}

func TestFrame(t *testing.T) {
	t.Run("encodes length, command and checksum", func(t *testing.T) {
		got := serial.LEDFrame(3, keypad.Color{R: 1, G: 2, B: 4}).Encode()
		require.Equal(t, []byte{0xAA, 0x55, 5, 0x10, 3, 1, 2, 4, 5 ^ 0x10 ^ 3 ^ 1 ^ 2 ^ 4}, got)
	})

	t.Run("decoder resyncs across noise and split reads", func(t *testing.T) {
		stream := append([]byte{0x00, 0xAA, 0x13}, edgeFrame(5, true)...)
		stream = append(stream, edgeFrame(5, false)...)

		var dec serial.Decoder
		frames := dec.Feed(stream[:6])
		frames = append(frames, dec.Feed(stream[6:])...)
		require.Len(t, frames, 2)

		e, ok := frames[0].KeyEdge()
		require.True(t, ok)
		require.Equal(t, keypad.KeyEdge{Slot: 5, Edge: keypad.Pressed}, e)
		e, _ = frames[1].KeyEdge()
		require.Equal(t, keypad.Released, e.Edge)
	})

	t.Run("decoder drops frames with a bad checksum", func(t *testing.T) {
		bad := edgeFrame(1, true)
		bad[len(bad)-1] ^= 0xFF

		var dec serial.Decoder
		frames := dec.Feed(append(bad, edgeFrame(2, true)...))
		require.Len(t, frames, 1)
		e, _ := frames[0].KeyEdge()
		require.Equal(t, 2, e.Slot)
	})

	t.Run("led frames are not key edges", func(t *testing.T) {
		_, ok := serial.LEDFrame(0, keypad.Off).KeyEdge()
		require.False(t, ok)
	})
}

type fakePort struct {
	r io.Reader

	mu      sync.Mutex
	written bytes.Buffer
}

func (p *fakePort) Read(b []byte) (int, error) { return p.r.Read(b) }

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.Write(b)
}

func (p *fakePort) Close() error { return nil }

func TestKeypad(t *testing.T) {
	t.Run("polls edges read from the port and reports the closed port once", func(t *testing.T) {
		in := append(edgeFrame(0, true), edgeFrame(0, false)...)
		k := serial.NewKeypad(&fakePort{r: bytes.NewReader(in)}, quietLogger())

		var edges []keypad.KeyEdge
		var lastErr error
		require.Eventually(t, func() bool {
			got, err := k.Poll()
			edges = append(edges, got...)
			if err != nil {
				lastErr = err
			}
			return lastErr != nil
		}, time.Second, 5*time.Millisecond)

		require.Equal(t, []keypad.KeyEdge{
			{Slot: 0, Edge: keypad.Pressed},
			{Slot: 0, Edge: keypad.Released},
		}, edges)
		require.True(t, keypad.IsTransportUnavailable(lastErr))

		_, err := k.Poll()
		require.NoError(t, err)
	})

	t.Run("apply writes an LED frame", func(t *testing.T) {
		port := &fakePort{r: bytes.NewReader(nil)}
		k := serial.NewKeypad(port, quietLogger())
		require.NoError(t, k.Apply(7, keypad.TapColor))

		port.mu.Lock()
		defer port.mu.Unlock()
		require.Equal(t, serial.LEDFrame(7, keypad.TapColor).Encode(), port.written.Bytes())
	})
}
