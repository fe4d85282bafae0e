package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/vaultkeeper/internal/model"
)

// UserStore is a mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) Create(ctx context.Context, user model.User) error {
	ret := m.Called(ctx, user)
	return ret.Error(0)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	ret := m.Called(ctx, id)
	user, _ := ret.Get(0).(model.User)
	return user, ret.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	ret := m.Called(ctx, email)
	user, _ := ret.Get(0).(model.User)
	return user, ret.Error(1)
}

// PasswordHasher is a mock of model.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(password string) (string, error) {
	ret := m.Called(password)
	return ret.String(0), ret.Error(1)
}

func (m *PasswordHasher) Verify(hash, password string) bool {
	ret := m.Called(hash, password)
	return ret.Bool(0)
}
