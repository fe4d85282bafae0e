package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/vaultkeeper/internal/model"
)

// GroupStore is a mock of model.GroupStore.
type GroupStore struct {
	mock.Mock
}

func (m *GroupStore) Create(ctx context.Context, group model.Group) error {
	ret := m.Called(ctx, group)
	return ret.Error(0)
}

func (m *GroupStore) GetByID(ctx context.Context, id uuid.UUID) (model.Group, error) {
	ret := m.Called(ctx, id)
	group, _ := ret.Get(0).(model.Group)
	return group, ret.Error(1)
}

func (m *GroupStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Group, error) {
	ret := m.Called(ctx, userID)
	groups, _ := ret.Get(0).([]model.Group)
	return groups, ret.Error(1)
}

func (m *GroupStore) AddMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	ret := m.Called(ctx, groupID, userID)
	return ret.Bool(0), ret.Error(1)
}

func (m *GroupStore) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	ret := m.Called(ctx, groupID, userID)
	return ret.Bool(0), ret.Error(1)
}

func (m *GroupStore) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	ret := m.Called(ctx, groupID, userID)
	return ret.Bool(0), ret.Error(1)
}

func (m *GroupStore) ListMembers(ctx context.Context, groupID uuid.UUID) ([]model.User, error) {
	ret := m.Called(ctx, groupID)
	users, _ := ret.Get(0).([]model.User)
	return users, ret.Error(1)
}

func (m *GroupStore) LinkSecret(ctx context.Context, groupID, secretID uuid.UUID) (bool, error) {
	ret := m.Called(ctx, groupID, secretID)
	return ret.Bool(0), ret.Error(1)
}

func (m *GroupStore) ListSecrets(ctx context.Context, groupID uuid.UUID) ([]model.SecretView, error) {
	ret := m.Called(ctx, groupID)
	views, _ := ret.Get(0).([]model.SecretView)
	return views, ret.Error(1)
}
