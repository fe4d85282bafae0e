// Package session keeps the logged-in user between command invocations and
// carries the user id through a request context.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/vaultkeeper/internal/model"
)

var _ model.ContextManager = (*Manager)(nil)

type userIDKey struct{}

// Manager stores and retrieves the user ID in a context.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns a copy of ctx carrying userID.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserIDFromContext reports the user ID carried by ctx, if any.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
