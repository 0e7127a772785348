package file

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/wb-go/wbf/zlog"
)

// Storage provides directory-backed file access for the batch converter.
// The source and destination directories are mounted by the surrounding
// job-orchestration layer; Storage only reads and writes directly inside
// them.
type Storage struct{}

// NewStorage creates a new Storage.
func NewStorage() *Storage {
	return &Storage{}
}

// List returns the names of JPEG files directly inside dir, matched by a
// case-insensitive ".jpg" suffix. Subdirectories are never traversed.
func (s *Storage) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list source directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".jpg") {
			names = append(names, e.Name())
		}
	}

	return names, nil
}

// Load opens the file at path for reading.
func (s *Storage) Load(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, nil
}

// Save writes src to dir/filename, creating dir first if needed and
// overwriting any existing file. An "already exists" directory error is
// swallowed; any other creation error is logged and reported.
func (s *Storage) Save(dir, filename string, src io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		zlog.Logger.Err(err).Str("dir", dir).Msg("failed to create destination directory")
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	dst := filepath.Join(dir, filename)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return dst, nil
}
