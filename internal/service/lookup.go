package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/vaultkeeper/internal/model"
)

// The lookup helpers turn a missing row into a NotFound error that names the
// entity, and leave other store failures wrapped.

func lookupUser(ctx context.Context, store model.Store, id uuid.UUID) (model.User, error) {
	user, err := store.Users().GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("%w: user %s does not exist", model.ErrNotFound, id)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func lookupUserByEmail(ctx context.Context, store model.Store, email string) (model.User, error) {
	user, err := store.Users().GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("%w: no user with email %q", model.ErrNotFound, email)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func lookupGroup(ctx context.Context, store model.Store, id uuid.UUID) (model.Group, error) {
	group, err := store.Groups().GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Group{}, fmt.Errorf("%w: group %s does not exist", model.ErrNotFound, id)
	}
	if err != nil {
		return model.Group{}, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

func lookupSecret(ctx context.Context, store model.Store, id uuid.UUID) (model.Secret, error) {
	secret, err := store.Secrets().GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Secret{}, secretNotFound(id)
	}
	if err != nil {
		return model.Secret{}, fmt.Errorf("failed to get secret: %w", err)
	}
	return secret, nil
}

func secretNotFound(id uuid.UUID) error {
	return fmt.Errorf("%w: secret %s does not exist", model.ErrNotFound, id)
}
