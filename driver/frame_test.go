package driver

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestFrame_RoundTrip(t *testing.T) {
	want := &LaunchResultFrame{Type: LaunchResultType, Status: 3, Message: "pod evicted"}
	buf, err := EncodeFrame(want)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}

	decoder := NewFrameDecoder(bytes.NewReader(buf))
	payload, err := decoder.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	got, err := DecodeLaunchResult(payload)
	if err != nil {
		t.Fatalf("DecodeLaunchResult: %v", err)
	}
	if got == nil || got.Status != want.Status || got.Message != want.Message {
		t.Errorf("frame = %+v, want %+v", got, want)
	}

	if _, err := decoder.ReadFrame(); err != io.EOF {
		t.Errorf("after last frame err = %v, want io.EOF", err)
	}
}

func TestDecodeLaunchResult_OtherTypesIgnored(t *testing.T) {
	buf, err := EncodeFrame(map[string]any{"type": "progress", "pct": 50})
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	payload, err := NewFrameDecoder(bytes.NewReader(buf)).ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}

	frame, err := DecodeLaunchResult(payload)
	if err != nil {
		t.Fatalf("DecodeLaunchResult: %v", err)
	}
	if frame != nil {
		t.Errorf("frame = %+v, want nil for foreign type", frame)
	}
}

func TestReadFrame_Partial(t *testing.T) {
	buf, err := EncodeFrame(&LaunchResultFrame{Type: LaunchResultType})
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}

	// Truncate mid-payload.
	decoder := NewFrameDecoder(bytes.NewReader(buf[:len(buf)-2]))
	if _, err := decoder.ReadFrame(); !errors.Is(err, ErrPartialFrame) {
		t.Errorf("err = %v, want ErrPartialFrame", err)
	}
}

func TestReadFrame_TruncatedPrefix(t *testing.T) {
	decoder := NewFrameDecoder(bytes.NewReader([]byte{0x00, 0x01}))
	if _, err := decoder.ReadFrame(); !errors.Is(err, ErrPartialFrame) {
		t.Errorf("err = %v, want ErrPartialFrame", err)
	}
}

func TestReadFrame_TooLarge(t *testing.T) {
	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], MaxPayloadSize+1)

	decoder := NewFrameDecoder(bytes.NewReader(prefix[:]))
	if _, err := decoder.ReadFrame(); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("err = %v, want ErrFrameTooLarge", err)
	}
}
