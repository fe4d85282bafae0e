package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/vaultkeeper/internal/logger"
	"github.com/dtroode/vaultkeeper/internal/model"
)

// Authenticator restores the logged-in user from the session file.
type Authenticator struct {
	file           *File
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticator(file *File, tokenManager model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Authenticator {
	return &Authenticator{
		file:           file,
		tokenManager:   tokenManager,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Login issues a session token for userID and stores it.
func (a *Authenticator) Login(userID uuid.UUID) error {
	token, err := a.tokenManager.GenerateSessionToken(userID)
	if err != nil {
		return fmt.Errorf("failed to issue session token: %w", err)
	}
	if err := a.file.Save(token); err != nil {
		return err
	}

	a.logger.Debug("session stored",
		"user_id", userID,
		"path", a.file.Path())

	return nil
}

func (a *Authenticator) Logout() error {
	return a.file.Clear()
}

// Authenticate returns a context carrying the logged-in user id. Missing,
// expired and tampered sessions are authentication errors.
func (a *Authenticator) Authenticate(ctx context.Context) (context.Context, error) {
	token, err := a.file.Load()
	if errors.Is(err, ErrNoSession) {
		return nil, fmt.Errorf("%w: not logged in, run login first", model.ErrAuthentication)
	}
	if err != nil {
		return nil, err
	}

	userID, err := a.tokenManager.ParseSessionToken(token)
	if err != nil {
		a.logger.Debug("session rejected",
			"error", err.Error())
		return nil, fmt.Errorf("%w: session is invalid or expired, log in again", model.ErrAuthentication)
	}

	return a.contextManager.SetUserIDToContext(ctx, userID), nil
}
