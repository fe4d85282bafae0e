package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/vaultkeeper/internal/logger"
	"github.com/dtroode/vaultkeeper/internal/model"
)

// Access resolves whether a user reaches a secret. The answer is recomputed
// from the store on every call.
type Access struct {
	store  model.Store
	logger *logger.Logger
}

func NewAccess(store model.Store, logger *logger.Logger) *Access {
	return &Access{
		store:  store,
		logger: logger,
	}
}

// in returns a resolver bound to a transactional store.
func (a *Access) in(tx model.Store) *Access {
	return &Access{store: tx, logger: a.logger}
}

func (a *Access) CanRead(ctx context.Context, userID, secretID uuid.UUID) (bool, error) {
	ok, err := a.store.Access().CanRead(ctx, userID, secretID)
	if err != nil {
		a.logger.Error("Access service: failed to resolve access",
			"user_id", userID,
			"secret_id", secretID,
			"error", err.Error())
		return false, fmt.Errorf("failed to resolve access: %w", err)
	}
	return ok, nil
}

// Readable lists every secret the user reaches, newest first.
func (a *Access) Readable(ctx context.Context, userID uuid.UUID) ([]model.SecretView, error) {
	views, err := a.store.Access().ListReadable(ctx, userID)
	if err != nil {
		a.logger.Error("Access service: failed to list readable secrets",
			"user_id", userID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}
	return views, nil
}

// Get returns a secret the user reaches. Unreachable and missing secrets are
// indistinguishable.
func (a *Access) Get(ctx context.Context, userID, secretID uuid.UUID) (model.SecretView, error) {
	view, err := a.store.Access().GetReadable(ctx, userID, secretID)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Debug("Access service: secret not readable",
			"user_id", userID,
			"secret_id", secretID)
		return model.SecretView{}, secretNotFound(secretID)
	}
	if err != nil {
		a.logger.Error("Access service: failed to get secret",
			"user_id", userID,
			"secret_id", secretID,
			"error", err.Error())
		return model.SecretView{}, fmt.Errorf("failed to get secret: %w", err)
	}
	return view, nil
}
