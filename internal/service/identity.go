package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/vaultkeeper/internal/logger"
	"github.com/dtroode/vaultkeeper/internal/model"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// dummyPassword is verified against when the email is unknown so both
// failure paths of Authenticate do the same work.
const dummyPassword = "vaultkeeper-timing-equalizer"

// Identity registers and authenticates users. It is the only writer of users.
type Identity struct {
	store  model.Store
	hasher model.PasswordHasher
	logger *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewIdentity(store model.Store, hasher model.PasswordHasher, logger *logger.Logger) *Identity {
	return &Identity{
		store:  store,
		hasher: hasher,
		logger: logger,
	}
}

// ValidEmail reports whether email has the accepted address format.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func (i *Identity) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	email := strings.TrimSpace(params.Email)

	i.logger.Debug("Identity service: registering user",
		"email", email)

	if err := validateRegistration(params.LastName, params.FirstName, email, params.Password); err != nil {
		i.logger.Info("Identity service: registration rejected",
			"email", email,
			"reason", err.Error())
		return model.User{}, err
	}

	_, err := i.store.Users().GetByEmail(ctx, email)
	if err == nil {
		return model.User{}, emailTaken(email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		i.logger.Error("Identity service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := i.hasher.Hash(params.Password)
	if errors.Is(err, model.ErrValidation) {
		i.logger.Info("Identity service: registration rejected",
			"email", email,
			"reason", err.Error())
		return model.User{}, err
	}
	if err != nil {
		i.logger.Error("Identity service: failed to hash password",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New(),
		LastName:     strings.TrimSpace(params.LastName),
		FirstName:    strings.TrimSpace(params.FirstName),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	err = i.store.Users().Create(ctx, user)
	if errors.Is(err, model.ErrConflict) {
		// lost a race with a concurrent registration
		return model.User{}, emailTaken(email)
	}
	if err != nil {
		i.logger.Error("Identity service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	i.logger.Info("Identity service: user registered",
		"user_id", user.ID,
		"email", email)

	return user, nil
}

func (i *Identity) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = strings.TrimSpace(email)

	i.logger.Debug("Identity service: authenticating user",
		"email", email)

	user, err := i.store.Users().GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		i.hasher.Verify(i.dummy(), password)
		i.logger.Info("Identity service: authentication failed",
			"email", email)
		return model.User{}, model.ErrInvalidCredentials
	}
	if err != nil {
		i.logger.Error("Identity service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !i.hasher.Verify(user.PasswordHash, password) {
		i.logger.Info("Identity service: authentication failed",
			"email", email)
		return model.User{}, model.ErrInvalidCredentials
	}

	i.logger.Info("Identity service: user authenticated",
		"user_id", user.ID)

	return user, nil
}

func (i *Identity) LookupByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return lookupUser(ctx, i.store, id)
}

func (i *Identity) LookupByEmail(ctx context.Context, email string) (model.User, error) {
	return lookupUserByEmail(ctx, i.store, strings.TrimSpace(email))
}

func (i *Identity) dummy() string {
	i.dummyOnce.Do(func() {
		hash, err := i.hasher.Hash(dummyPassword)
		if err != nil {
			i.logger.Error("Identity service: failed to prepare dummy hash",
				"error", err.Error())
			return
		}
		i.dummyHash = hash
	})
	return i.dummyHash
}

func validateRegistration(lastName, firstName, email, password string) error {
	switch {
	case strings.TrimSpace(lastName) == "":
		return fmt.Errorf("%w: last name is required", model.ErrValidation)
	case strings.TrimSpace(firstName) == "":
		return fmt.Errorf("%w: first name is required", model.ErrValidation)
	case !ValidEmail(email):
		return fmt.Errorf("%w: %q is not a valid email address", model.ErrValidation, email)
	case password == "":
		return fmt.Errorf("%w: password is required", model.ErrValidation)
	}
	return nil
}

func emailTaken(email string) error {
	return fmt.Errorf("%w: email %q is already registered", model.ErrValidation, email)
}
