package wire

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"hello":"world"}`)

	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %q want %q", got, payload)
	}
}

func TestWriteFrameRejectsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, nil); err != ErrEmptyFrame {
		t.Fatalf("expected ErrEmptyFrame, got %v", err)
	}
}

func TestWriteFrameRejectsOversize(t *testing.T) {
	var buf bytes.Buffer
	oversized := make([]byte, MaxFrameSize+1)
	if err := WriteFrame(&buf, oversized); err != ErrFrameTooLarge {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestReadFrameRejectsZeroLength(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x00, 0x00, 0x00, 0x00})
	if _, err := ReadFrame(buf); err != ErrEmptyFrame {
		t.Fatalf("expected ErrEmptyFrame, got %v", err)
	}
}

func TestReadFrameRejectsOversizeHeader(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x00, 0x02, 0x00, 0x01}) // length 0x00020001 > 65536
	if _, err := ReadFrame(buf); err != ErrFrameTooLarge {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestReadFrameShortHeader(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x00, 0x00})
	if _, err := ReadFrame(buf); err == nil {
		t.Fatal("expected error on truncated header")
	}
}

type jsonMsg struct {
	Kind string `json:"kind"`
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, jsonMsg{Kind: "ping"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out jsonMsg
	if err := ReadJSON(&buf, &out); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if out.Kind != "ping" {
		t.Fatalf("got kind %q, want ping", out.Kind)
	}
}

func TestReadFrameShortBody(t *testing.T) {
	var header [4]byte
	header[2] = 0x00
	header[3] = 0x0a // declares 10 bytes
	r := strings.NewReader(string(header[:]) + "short")
	if _, err := ReadFrame(r); err == nil {
		t.Fatal("expected error on truncated body")
	}
}
