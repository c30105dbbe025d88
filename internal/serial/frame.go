// Package serial drives a Keybow 2040 running the serial bridge firmware.
package serial

import (
	"github.com/PixPMusic/gopher-keypad/internal/keypad"
)

const (
	SOF0 = 0xAA
	SOF1 = 0x55

	CmdKeyEdge = 0x01 // device -> host: [slot][edge]
	CmdSetLED  = 0x10 // host -> device: [slot][r][g][b]

	maxPayload = 32
)

// Frame is one command with its payload.
//
// On the wire: [SOF0][SOF1][LEN][CMD][payload...][CKS] where LEN counts CMD
// plus payload and CKS is the XOR of LEN, CMD and every payload byte.
type Frame struct {
	Cmd     byte
	Payload []byte
}

// Encode builds the on-wire representation
func (f Frame) Encode() []byte {
	length := byte(len(f.Payload) + 1)
	cks := length ^ f.Cmd
	for _, b := range f.Payload {
		cks ^= b
	}

	out := make([]byte, 0, len(f.Payload)+5)
	out = append(out, SOF0, SOF1, length, f.Cmd)
	out = append(out, f.Payload...)
	return append(out, cks)
}

// LEDFrame sets one slot's color
func LEDFrame(slot int, c keypad.Color) Frame {
	return Frame{Cmd: CmdSetLED, Payload: []byte{byte(slot), c.R, c.G, c.B}}
}

// KeyEdge decodes a CmdKeyEdge frame
func (f Frame) KeyEdge() (keypad.KeyEdge, bool) {
	if f.Cmd != CmdKeyEdge || len(f.Payload) != 2 {
		return keypad.KeyEdge{}, false
	}
	edge := keypad.KeyEdge{Slot: int(f.Payload[0]), Edge: keypad.Released}
	if f.Payload[1] != 0 {
		edge.Edge = keypad.Pressed
	}
	return edge, true
}

// Decoder reassembles frames from a byte stream, skipping noise and frames
// with a bad checksum
type Decoder struct {
	buf []byte
}

// Feed appends data and returns every complete frame
func (d *Decoder) Feed(data []byte) []Frame {
	d.buf = append(d.buf, data...)

	var frames []Frame
	for {
		start := d.sync()
		if start < 0 || len(d.buf) < 3 {
			return frames
		}

		length := int(d.buf[2])
		if length == 0 || length > maxPayload+1 {
			d.buf = d.buf[1:]
			continue
		}
		total := 3 + length + 1
		if len(d.buf) < total {
			return frames
		}

		body := d.buf[3 : 3+length]
		cks := byte(length)
		for _, b := range body {
			cks ^= b
		}
		if cks != d.buf[total-1] {
			d.buf = d.buf[1:]
			continue
		}

		payload := make([]byte, length-1)
		copy(payload, body[1:])
		frames = append(frames, Frame{Cmd: body[0], Payload: payload})
		d.buf = d.buf[total:]
	}
}

// sync drops bytes up to the next start-of-frame marker
func (d *Decoder) sync() int {
	for i := 0; i+1 < len(d.buf); i++ {
		if d.buf[i] == SOF0 && d.buf[i+1] == SOF1 {
			d.buf = d.buf[i:]
			return 0
		}
	}
	if n := len(d.buf); n > 0 && d.buf[n-1] == SOF0 {
		d.buf = d.buf[n-1:]
	} else {
		d.buf = d.buf[:0]
	}
	return -1
}
