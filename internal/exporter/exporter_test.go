package exporter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/an0nymoos3/nid-compiler/internal/exporter"
)

func TestWriteAssembly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ass")
	if err := exporter.WriteAssembly(path, []string{"ldi, r0, 3", "ret"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := "ldi, r0, 3\nret\n"
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.out")
	if err := exporter.WriteBinary(path, []uint32{1, 0x01020304}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := []byte{1, 0, 0, 0, 0x04, 0x03, 0x02, 0x01}
	if len(got) != len(want) {
		t.Fatalf("got %d bytes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: got %x, want %x", i, got[i], want[i])
		}
	}
}

func TestWriteString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.out")
	if err := exporter.WriteString(path, []uint32{0, 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := strings32(0) + strings32(1)
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func strings32(n uint32) string {
	const bits = 32
	buf := make([]byte, bits)
	for i := bits - 1; i >= 0; i-- {
		if n&1 == 1 {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
		n >>= 1
	}
	return string(buf)
}
