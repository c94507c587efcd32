package ipc

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxFrame is the largest payload accepted on the wire.
const MaxFrame = 4 << 20

const headerLen = 4

// ErrFrameSize is returned for a frame that is empty or larger than MaxFrame.
var ErrFrameSize = errors.New("invalid frame size")

// Envelope is the wire format shared with the turn-execution layer.
// Data stays raw until a handler picks the concrete message type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func NewEnvelope(msgType string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", msgType, err)
	}
	return Envelope{Type: msgType, Data: raw}, nil
}

// ReadEnvelope reads one frame: a 4-byte little-endian payload length
// followed by the JSON envelope.
func ReadEnvelope(r io.Reader) (Envelope, error) {
	var hdr [headerLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Envelope{}, fmt.Errorf("read frame header: %w", err)
	}
	n := binary.LittleEndian.Uint32(hdr[:])
	if n == 0 || n > MaxFrame {
		return Envelope{}, fmt.Errorf("frame of %d bytes: %w", n, ErrFrameSize)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Envelope{}, fmt.Errorf("read frame payload: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// WriteEnvelope writes env as a single frame in one Write call.
func WriteEnvelope(w io.Writer, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	if len(payload) > MaxFrame {
		return fmt.Errorf("%s frame of %d bytes: %w", env.Type, len(payload), ErrFrameSize)
	}

	frame := make([]byte, headerLen+len(payload))
	binary.LittleEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[headerLen:], payload)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write %s frame: %w", env.Type, err)
	}
	return nil
}
