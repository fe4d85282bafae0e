package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/vaultkeeper/internal/model"
)

// SecretStore is a mock of model.SecretStore.
type SecretStore struct {
	mock.Mock
}

func (m *SecretStore) Create(ctx context.Context, secret model.Secret) error {
	ret := m.Called(ctx, secret)
	return ret.Error(0)
}

func (m *SecretStore) GetByID(ctx context.Context, id uuid.UUID) (model.Secret, error) {
	ret := m.Called(ctx, id)
	secret, _ := ret.Get(0).(model.Secret)
	return secret, ret.Error(1)
}

func (m *SecretStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ret := m.Called(ctx, id)
	return ret.Bool(0), ret.Error(1)
}

func (m *SecretStore) ShareWithUser(ctx context.Context, secretID, userID uuid.UUID) (bool, error) {
	ret := m.Called(ctx, secretID, userID)
	return ret.Bool(0), ret.Error(1)
}

// AccessStore is a mock of model.AccessStore.
type AccessStore struct {
	mock.Mock
}

func (m *AccessStore) CanRead(ctx context.Context, userID, secretID uuid.UUID) (bool, error) {
	ret := m.Called(ctx, userID, secretID)
	return ret.Bool(0), ret.Error(1)
}

func (m *AccessStore) ListReadable(ctx context.Context, userID uuid.UUID) ([]model.SecretView, error) {
	ret := m.Called(ctx, userID)
	views, _ := ret.Get(0).([]model.SecretView)
	return views, ret.Error(1)
}

func (m *AccessStore) GetReadable(ctx context.Context, userID, secretID uuid.UUID) (model.SecretView, error) {
	ret := m.Called(ctx, userID, secretID)
	view, _ := ret.Get(0).(model.SecretView)
	return view, ret.Error(1)
}
