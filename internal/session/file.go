package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("no active session")

// File persists the session token between invocations. The file is readable
// by its owner only.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (f *File) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoSession
	}
	return token, nil
}

// Clear removes the session file. A missing file is not an error.
func (f *File) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
