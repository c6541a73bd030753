// Package storage provides the blob store backing patient scan uploads.
// Records hold relative, forward-slash paths so the database stays portable
// across hosts; resolution back to the filesystem happens here.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ScanStorage is the content store for uploaded scan images.
type ScanStorage interface {
	// Save persists the content under filename and returns the relative
	// path to record against the scan.
	Save(filename string, content io.Reader) (string, error)

	// Exists reports whether the blob referenced by a stored path is still
	// present on the backend.
	Exists(storedPath string) bool

	// Read returns the raw bytes of a stored blob.
	Read(storedPath string) ([]byte, error)
}

// LocalStorage keeps blobs on the local filesystem under a base directory.
type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", baseDir, err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

func (s *LocalStorage) Save(filename string, content io.Reader) (string, error) {
	absolute := filepath.Join(s.baseDir, filename)

	f, err := os.Create(absolute)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", absolute, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", absolute, err)
	}

	return filepath.ToSlash(absolute), nil
}

func (s *LocalStorage) Exists(storedPath string) bool {
	info, err := os.Stat(filepath.FromSlash(storedPath))
	return err == nil && !info.IsDir()
}

func (s *LocalStorage) Read(storedPath string) ([]byte, error) {
	return os.ReadFile(filepath.FromSlash(storedPath))
}
