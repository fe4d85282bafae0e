package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SecretStore defines persistence operations for secrets and their direct
// user shares.
type SecretStore interface {
	Create(ctx context.Context, secret Secret) error
	GetByID(ctx context.Context, id uuid.UUID) (Secret, error)
	// Delete removes the secret's user shares, group shares and the secret
	// itself, in that order. It reports whether the secret row was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// ShareWithUser reports false when the share already exists.
	ShareWithUser(ctx context.Context, secretID, userID uuid.UUID) (bool, error)
}

// AccessStore answers reachability questions over the sharing graph. A user
// reaches a secret as its creator, through a direct share, or through a
// group share of a group the user belongs to.
type AccessStore interface {
	CanRead(ctx context.Context, userID, secretID uuid.UUID) (bool, error)
	ListReadable(ctx context.Context, userID uuid.UUID) ([]SecretView, error)
	GetReadable(ctx context.Context, userID, secretID uuid.UUID) (SecretView, error)
}

// Secret is a stored password entry.
type Secret struct {
	ID        uuid.UUID
	Label     string
	Value     string
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

// SecretView is a secret annotated with its creator's name.
type SecretView struct {
	Secret
	CreatorFirstName string
	CreatorLastName  string
}

// CreatorName returns the creator's display name.
func (v SecretView) CreatorName() string {
	return strings.TrimSpace(v.CreatorFirstName + " " + v.CreatorLastName)
}
