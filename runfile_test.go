package filesort

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ferrors "github.com/mvsort/filesort/errors"
)

func TestRunFileNameFormat(t *testing.T) {
	got := runFileName("/tmp/tmpdir.abc", 2, 7)
	want := filepath.Join("/tmp/tmpdir.abc", "2_7")
	if got != want {
		t.Fatalf("runFileName = %q, want %q", got, want)
	}
}

func TestWriteReadRunFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0_0")
	data := []int32{-5, 0, 3, 100, 2147483647, -2147483648}

	if err := writeRunFile(path, data); err != nil {
		t.Fatalf("writeRunFile: %v", err)
	}

	r, err := openRunFile(path)
	if err != nil {
		t.Fatalf("openRunFile: %v", err)
	}
	defer r.close()

	got := make([]int32, len(data))
	n, err := r.readBlock(got)
	if err != nil {
		t.Fatalf("readBlock: %v", err)
	}
	if n != len(data) {
		t.Fatalf("readBlock returned %d values, want %d", n, len(data))
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("value %d: got %d, want %d", i, got[i], data[i])
		}
	}

	n2, err := r.readBlock(got)
	if err != nil {
		t.Fatalf("readBlock at EOF: %v", err)
	}
	if n2 != 0 {
		t.Fatalf("readBlock at EOF returned %d, want 0", n2)
	}
}

func TestOpenRunFileDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0_0")
	if err := writeRunFile(path, []int32{1, 2, 3}); err != nil {
		t.Fatalf("writeRunFile: %v", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("open for corruption: %v", err)
	}
	if _, err := f.WriteAt([]byte{0xFF}, 0); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	f.Close()

	_, err = openRunFile(path)
	if err == nil {
		t.Fatalf("expected corruption to be detected")
	}
	if !errors.Is(err, ferrors.ErrRunFileCorrupt) {
		t.Fatalf("got %v, want wrapping ErrRunFileCorrupt", err)
	}
}

func TestRunFileWriterStreaming(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1_0")

	w, err := createRunFileWriter(path, 6)
	if err != nil {
		t.Fatalf("createRunFileWriter: %v", err)
	}
	if err := w.writeBlock([]int32{1, 2, 3}); err != nil {
		t.Fatalf("writeBlock: %v", err)
	}
	if err := w.writeBlock([]int32{4, 5, 6}); err != nil {
		t.Fatalf("writeBlock: %v", err)
	}
	if err := w.close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := openRunFile(path)
	if err != nil {
		t.Fatalf("openRunFile: %v", err)
	}
	defer r.close()

	got := make([]int32, 6)
	n, err := r.readBlock(got)
	if err != nil || n != 6 {
		t.Fatalf("readBlock: n=%d err=%v", n, err)
	}
	for i := 0; i < 6; i++ {
		if got[i] != int32(i+1) {
			t.Fatalf("value %d: got %d, want %d", i, got[i], i+1)
		}
	}
}
