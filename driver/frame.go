// Package driver launches the external cluster driver process and translates
// its outcome into a launch status code.
package driver

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Frame size constants for the driver stdout stream.
const (
	// MaxFrameSize is the maximum frame size (1 MiB), including prefix.
	MaxFrameSize = 1 * 1024 * 1024
	// LengthPrefixSize is the size of the big-endian length prefix.
	LengthPrefixSize = 4
	// MaxPayloadSize is the maximum payload size.
	MaxPayloadSize = MaxFrameSize - LengthPrefixSize
)

// LaunchResultType is the type discriminant for launch result frames.
const LaunchResultType = "launch_result"

// ErrFrameTooLarge indicates a frame exceeding MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// ErrPartialFrame indicates a truncated frame, usually a driver crash
// mid-write.
var ErrPartialFrame = errors.New("partial frame")

// LaunchResultFrame is the final control frame a driver may emit on stdout.
// When present, its status overrides the process exit code.
type LaunchResultFrame struct {
	// Type is always "launch_result".
	Type string `msgpack:"type"`
	// Status is the launch outcome status code.
	Status int `msgpack:"status"`
	// Message is an optional human-readable description.
	Message string `msgpack:"message,omitempty"`
}

// FrameDecoder decodes length-prefixed msgpack frames from the driver stdout.
type FrameDecoder struct {
	reader io.Reader
}

// NewFrameDecoder creates a decoder over r.
func NewFrameDecoder(r io.Reader) *FrameDecoder {
	return &FrameDecoder{reader: r}
}

// ReadFrame reads one frame payload. Returns io.EOF when the stream ended
// cleanly on a frame boundary.
func (d *FrameDecoder) ReadFrame() ([]byte, error) {
	var lengthBuf [LengthPrefixSize]byte
	if _, err := io.ReadFull(d.reader, lengthBuf[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: reading length prefix: %v", ErrPartialFrame, err)
	}

	length := binary.BigEndian.Uint32(lengthBuf[:])
	if length > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(d.reader, payload); err != nil {
		return nil, fmt.Errorf("%w: reading payload: %v", ErrPartialFrame, err)
	}
	return payload, nil
}

// DecodeLaunchResult decodes a payload into a LaunchResultFrame.
// Returns (nil, nil) for frames of another type, which are ignored.
func DecodeLaunchResult(payload []byte) (*LaunchResultFrame, error) {
	var frame LaunchResultFrame
	if err := msgpack.Unmarshal(payload, &frame); err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	if frame.Type != LaunchResultType {
		return nil, nil
	}
	return &frame, nil
}

// EncodeFrame encodes v as a length-prefixed msgpack frame. Used by driver
// implementations and test fixtures.
func EncodeFrame(v any) ([]byte, error) {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}

	buf := make([]byte, LengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(buf[:LengthPrefixSize], uint32(len(payload)))
	copy(buf[LengthPrefixSize:], payload)
	return buf, nil
}
