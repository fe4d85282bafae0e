package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}

// User represents a registered vault user with credential material.
type User struct {
	ID           uuid.UUID
	LastName     string
	FirstName    string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName returns the user's full name.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// RegisterParams contains parameters to register a user.
type RegisterParams struct {
	LastName  string
	FirstName string
	Email     string
	Password  string
}

// PasswordHasher turns a plain password into a stored credential hash and
// checks a password against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}
