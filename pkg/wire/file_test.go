package wire

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestSendReceiveFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "source.bin")
	content := bytes.Repeat([]byte{0x42}, FileChunkSize*3+17)
	if err := os.WriteFile(srcPath, content, 0o644); err != nil {
		t.Fatalf("writing source file: %v", err)
	}

	var conn bytes.Buffer
	if err := SendFile(&conn, srcPath, "bundle/v1/source.bin"); err != nil {
		t.Fatalf("SendFile: %v", err)
	}

	destPath := filepath.Join(dir, "nested", "dest.bin")
	meta, err := ReceiveFile(&conn, destPath)
	if err != nil {
		t.Fatalf("ReceiveFile: %v", err)
	}
	if meta.Name != "bundle/v1/source.bin" {
		t.Fatalf("got name %q", meta.Name)
	}
	if meta.Size != int64(len(content)) {
		t.Fatalf("got size %d, want %d", meta.Size, len(content))
	}

	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("reading destination: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatal("received content does not match source")
	}
}

func TestReceiveFileRejectsWrongFrameType(t *testing.T) {
	var conn bytes.Buffer
	if err := WriteJSON(&conn, map[string]string{"type": "NOT_METADATA"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	dir := t.TempDir()
	if _, err := ReceiveFile(&conn, filepath.Join(dir, "out.bin")); err == nil {
		t.Fatal("expected error for wrong frame type")
	}
}

func TestReceiveFileAbortsOnShortBody(t *testing.T) {
	var conn bytes.Buffer
	if err := WriteJSON(&conn, FileMetadata{Type: "FILE_METADATA", Size: 100, Name: "x"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	conn.WriteString("short")

	dir := t.TempDir()
	destPath := filepath.Join(dir, "out.bin")
	if _, err := ReceiveFile(&conn, destPath); err == nil {
		t.Fatal("expected error on short body")
	}
	if _, statErr := os.Stat(destPath); !os.IsNotExist(statErr) {
		t.Fatal("expected partial file to be removed")
	}
}
