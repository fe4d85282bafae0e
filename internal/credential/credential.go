// Package credential implements model.PasswordHasher.
package credential

import (
	"errors"
	"fmt"

	"github.com/GehirnInc/crypt/sha512_crypt"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/vaultkeeper/internal/model"
)

// Supported algorithm names.
const (
	AlgorithmBcrypt      = "bcrypt"
	AlgorithmSHA512Crypt = "sha512-crypt"
)

var (
	_ model.PasswordHasher = (*Bcrypt)(nil)
	_ model.PasswordHasher = (*SHA512Crypt)(nil)
)

// New returns the hasher for the named algorithm. cost only applies to bcrypt.
func New(algorithm string, cost int) (model.PasswordHasher, error) {
	switch algorithm {
	case AlgorithmBcrypt, "":
		return NewBcrypt(cost)
	case AlgorithmSHA512Crypt:
		return NewSHA512Crypt(), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algorithm)
	}
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Bcrypt hashes passwords with bcrypt. Passwords over MaxPasswordBytes are
// rejected with model.ErrValidation.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a bcrypt hasher. Zero cost selects bcrypt.DefaultCost.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return &Bcrypt{cost: cost}, nil
}

func (b *Bcrypt) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", passwordTooLong()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", passwordTooLong()
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate bcrypt hash: %w", err)
	}
	return string(hash), nil
}

func passwordTooLong() error {
	return fmt.Errorf("%w: password must be at most %d bytes", model.ErrValidation, MaxPasswordBytes)
}

func (b *Bcrypt) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SHA512Crypt hashes passwords in the $6$ crypt(3) format.
type SHA512Crypt struct{}

func NewSHA512Crypt() *SHA512Crypt {
	return &SHA512Crypt{}
}

func (s *SHA512Crypt) Hash(password string) (string, error) {
	hash, err := sha512_crypt.New().Generate([]byte(password), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate sha512-crypt hash: %w", err)
	}
	return hash, nil
}

func (s *SHA512Crypt) Verify(hash, password string) bool {
	return sha512_crypt.New().Verify(hash, []byte(password)) == nil
}
