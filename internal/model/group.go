package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GroupStore defines persistence operations for groups, their members and
// the secrets linked to them.
type GroupStore interface {
	Create(ctx context.Context, group Group) error
	GetByID(ctx context.Context, id uuid.UUID) (Group, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Group, error)

	// AddMember reports false when the membership already exists.
	AddMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	// RemoveMember reports whether a membership row was deleted.
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]User, error)

	// LinkSecret reports false when the secret is already linked.
	LinkSecret(ctx context.Context, groupID, secretID uuid.UUID) (bool, error)
	ListSecrets(ctx context.Context, groupID uuid.UUID) ([]SecretView, error)
}

// Group is a set of users administered by a single admin.
type Group struct {
	ID        uuid.UUID
	Name      string
	AdminID   uuid.UUID
	CreatedAt time.Time
}

// IsAdmin reports whether userID administers the group.
func (g Group) IsAdmin(userID uuid.UUID) bool {
	return g.AdminID == userID
}

// Member is a group member as listed to other members.
type Member struct {
	User    User
	IsAdmin bool
}
