package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const secretBytes = 32

// SigningSecret returns the configured token signing secret. When none is
// configured it falls back to a random per-install secret kept at path,
// generated on first use and readable by its owner only.
func SigningSecret(configured, path string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	secret, err := readSecret(path)
	if !errors.Is(err, fs.ErrNotExist) {
		return secret, err
	}

	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate signing secret: %w", err)
	}
	secret = hex.EncodeToString(buf)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("failed to create signing secret directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		// another invocation created it first
		return readSecret(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create signing secret file: %w", err)
	}
	if _, err := f.WriteString(secret + "\n"); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write signing secret: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write signing secret: %w", err)
	}

	return secret, nil
}

func readSecret(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("failed to read signing secret: %w", err)
	}
	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("signing secret file %s is empty", path)
	}
	return secret, nil
}
