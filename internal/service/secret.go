package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/vaultkeeper/internal/logger"
	"github.com/dtroode/vaultkeeper/internal/model"
	"github.com/dtroode/vaultkeeper/internal/passgen"
)

// Secret manages stored password entries and their direct shares.
type Secret struct {
	store         model.Store
	access        *Access
	defaultLength int
	logger        *logger.Logger
}

// NewSecret creates the secret service. defaultLength is used by
// GenerateValue when no length is requested; zero selects
// passgen.DefaultLength.
func NewSecret(store model.Store, access *Access, defaultLength int, logger *logger.Logger) *Secret {
	if defaultLength == 0 {
		defaultLength = passgen.DefaultLength
	}
	return &Secret{
		store:         store,
		access:        access,
		defaultLength: defaultLength,
		logger:        logger,
	}
}

// GenerateValue returns a random password. Zero length selects the default.
func (s *Secret) GenerateValue(length int) (string, error) {
	if length == 0 {
		length = s.defaultLength
	}
	return passgen.Generate(length)
}

// Create stores a secret owned by ownerID together with the owner's share.
func (s *Secret) Create(ctx context.Context, label, value string, ownerID uuid.UUID) (model.Secret, error) {
	s.logger.Debug("Secret service: creating secret",
		"owner_id", ownerID)

	secret, err := newSecret(label, value, ownerID)
	if err != nil {
		return model.Secret{}, err
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx model.Store) error {
		if _, err := lookupUser(ctx, tx, ownerID); err != nil {
			return err
		}
		return insertOwned(ctx, tx, secret)
	})
	if err != nil {
		s.logFailure("failed to create secret", err, "owner_id", ownerID)
		return model.Secret{}, err
	}

	s.logger.Info("Secret service: secret created",
		"secret_id", secret.ID,
		"owner_id", ownerID)

	return secret, nil
}

// CreateInGroup stores a secret on behalf of a group admin and links it to
// the group in the same transaction.
func (s *Secret) CreateInGroup(ctx context.Context, label, value string, groupID, requesterID uuid.UUID) (model.Secret, error) {
	s.logger.Debug("Secret service: creating group secret",
		"group_id", groupID,
		"requester_id", requesterID)

	secret, err := newSecret(label, value, requesterID)
	if err != nil {
		return model.Secret{}, err
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx model.Store) error {
		group, err := lookupGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if !group.IsAdmin(requesterID) {
			return fmt.Errorf("%w: only the admin of group %q can add secrets to it", model.ErrAuthorization, group.Name)
		}
		if err := insertOwned(ctx, tx, secret); err != nil {
			return err
		}
		if _, err := tx.Groups().LinkSecret(ctx, group.ID, secret.ID); err != nil {
			return fmt.Errorf("failed to link secret to group: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("failed to create group secret", err, "group_id", groupID, "requester_id", requesterID)
		return model.Secret{}, err
	}

	s.logger.Info("Secret service: group secret created",
		"secret_id", secret.ID,
		"group_id", groupID)

	return secret, nil
}

// Delete removes a secret and every share of it. Only the creator may
// delete.
func (s *Secret) Delete(ctx context.Context, secretID, requesterID uuid.UUID) (bool, error) {
	s.logger.Debug("Secret service: deleting secret",
		"secret_id", secretID,
		"requester_id", requesterID)

	var deleted bool
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx model.Store) error {
		secret, err := lookupSecret(ctx, tx, secretID)
		if err != nil {
			return err
		}
		if secret.CreatedBy != requesterID {
			return fmt.Errorf("%w: only the creator can delete secret %q", model.ErrAuthorization, secret.Label)
		}
		deleted, err = tx.Secrets().Delete(ctx, secretID)
		if err != nil {
			return fmt.Errorf("failed to delete secret: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("failed to delete secret", err, "secret_id", secretID, "requester_id", requesterID)
		return false, err
	}

	s.logger.Info("Secret service: secret deleted",
		"secret_id", secretID,
		"deleted", deleted)

	return deleted, nil
}

// ListForUser returns every secret the user reaches, newest first.
func (s *Secret) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.SecretView, error) {
	return s.access.Readable(ctx, userID)
}

// Get returns one secret the requester can read.
func (s *Secret) Get(ctx context.Context, secretID, requesterID uuid.UUID) (model.SecretView, error) {
	return s.access.Get(ctx, requesterID, secretID)
}

// ShareWithUser grants targetID direct read access. The requester must be
// able to read the secret. Sharing with a user who already reads it succeeds
// without changes.
func (s *Secret) ShareWithUser(ctx context.Context, secretID, targetID, requesterID uuid.UUID) (bool, error) {
	s.logger.Debug("Secret service: sharing secret",
		"secret_id", secretID,
		"target_id", targetID,
		"requester_id", requesterID)

	var added bool
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx model.Store) error {
		access := s.access.in(tx)

		ok, err := access.CanRead(ctx, requesterID, secretID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: you cannot share a secret you cannot read", model.ErrAuthorization)
		}

		if _, err := lookupUser(ctx, tx, targetID); err != nil {
			return err
		}

		ok, err = access.CanRead(ctx, targetID, secretID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		added, err = tx.Secrets().ShareWithUser(ctx, secretID, targetID)
		if err != nil {
			return fmt.Errorf("failed to share secret: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("failed to share secret", err, "secret_id", secretID, "target_id", targetID)
		return false, err
	}

	s.logger.Info("Secret service: secret shared",
		"secret_id", secretID,
		"target_id", targetID,
		"new_share", added)

	return true, nil
}

func (s *Secret) logFailure(msg string, err error, args ...any) {
	logFailure(s.logger, "Secret service: "+msg, err, args...)
}

func newSecret(label, value string, ownerID uuid.UUID) (model.Secret, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return model.Secret{}, fmt.Errorf("%w: label is required", model.ErrValidation)
	}
	if value == "" {
		return model.Secret{}, fmt.Errorf("%w: value is required", model.ErrValidation)
	}
	return model.Secret{
		ID:        uuid.New(),
		Label:     label,
		Value:     value,
		CreatedBy: ownerID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func insertOwned(ctx context.Context, tx model.Store, secret model.Secret) error {
	if err := tx.Secrets().Create(ctx, secret); err != nil {
		return fmt.Errorf("failed to create secret: %w", err)
	}
	if _, err := tx.Secrets().ShareWithUser(ctx, secret.ID, secret.CreatedBy); err != nil {
		return fmt.Errorf("failed to share secret with owner: %w", err)
	}
	return nil
}

// logFailure logs refusals at Warn and store failures at Error.
func logFailure(log *logger.Logger, msg string, err error, args ...any) {
	args = append(args, "error", err.Error())
	switch {
	case errors.Is(err, model.ErrAuthorization):
		log.Warn(msg, args...)
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrConflict):
		log.Info(msg, args...)
	default:
		log.Error(msg, args...)
	}
}
