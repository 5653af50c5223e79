package testutil

import (
	"os"
	"path/filepath"
)

// TempDir is a workspace folder on disk.
type TempDir struct {
	Path string
}

// NewTempDir creates a temporary directory. Symlinks in its path are resolved so
// paths reported by the file watcher match.
func NewTempDir() (*TempDir, error) {
	dir, err := os.MkdirTemp("", "cspell-citest-*")
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	return &TempDir{Path: dir}, nil
}

// WriteFile writes content to name below the directory, creating parents.
func (d *TempDir) WriteFile(name, content string) (string, error) {
	path := filepath.Join(d.Path, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// ReadFile reads name below the directory.
func (d *TempDir) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(d.Path, filepath.FromSlash(name)))
	return string(data), err
}

// Join returns the absolute path of name below the directory.
func (d *TempDir) Join(name string) string {
	return filepath.Join(d.Path, filepath.FromSlash(name))
}

// Cleanup removes the directory
func (d *TempDir) Cleanup() {
	os.RemoveAll(d.Path)
}
