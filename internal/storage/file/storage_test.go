package file

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/wb-go/wbf/zlog"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile %s: %v", path, err)
	}
}

func TestListFiltersJPEGCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.jpg"), "x")
	writeFile(t, filepath.Join(dir, "B.JPG"), "x")
	writeFile(t, filepath.Join(dir, "c.png"), "x")
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")

	// Files inside subdirectories must not be listed.
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	writeFile(t, filepath.Join(sub, "d.jpg"), "x")

	names, err := NewStorage().List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(names) != 2 {
		t.Fatalf("names = %v, want exactly a.jpg and B.JPG", names)
	}
	got := map[string]bool{}
	for _, n := range names {
		got[n] = true
	}
	if !got["a.jpg"] || !got["B.JPG"] {
		t.Fatalf("names = %v, want a.jpg and B.JPG", names)
	}
}

func TestListMissingDirectory(t *testing.T) {
	_, err := NewStorage().List(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

func TestSaveCreatesDestinationDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "clean")

	dst, err := NewStorage().Save(dir, "a.jpg", bytes.NewReader([]byte("payload")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("content = %q, want %q", data, "payload")
	}
}

func TestSaveExistingDirectoryIsNotFatal(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewStorage().Save(dir, "a.jpg", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatalf("Save into existing directory: %v", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage()

	if _, err := s.Save(dir, "a.jpg", bytes.NewReader([]byte("first"))); err != nil {
		t.Fatalf("Save: %v", err)
	}
	dst, err := s.Save(dir, "a.jpg", bytes.NewReader([]byte("second")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("content = %q, want the overwritten value", data)
	}
}

func TestLoadReadsBack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.jpg"), "payload")

	rc, err := NewStorage().Load(filepath.Join(dir, "a.jpg"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("content = %q, want %q", data, "payload")
	}
}
