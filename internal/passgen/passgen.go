// Package passgen generates random password values.
package passgen

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/dtroode/vaultkeeper/internal/model"
)

const (
	// MinLength is the shortest value Generate accepts.
	MinLength = 8
	// DefaultLength is used when no length is configured.
	DefaultLength = 16
	// Alphabet lists every character a generated value may contain.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"
)

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generate returns a value of the given length with every character drawn
// uniformly from Alphabet using crypto/rand.
func Generate(length int) (string, error) {
	if length < MinLength {
		return "", fmt.Errorf("%w: password length must be at least %d, got %d", model.ErrValidation, MinLength, length)
	}

	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}

	return string(buf), nil
}
