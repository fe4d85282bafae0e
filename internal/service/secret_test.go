package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/vaultkeeper/internal/mocks"
	"github.com/dtroode/vaultkeeper/internal/model"
	"github.com/dtroode/vaultkeeper/internal/passgen"
	"github.com/dtroode/vaultkeeper/internal/testutil"
)

func newSecretService(store *mocks.Store) *Secret {
	log := testutil.MakeNoopLogger()
	return NewSecret(store, NewAccess(store, log), 0, log)
}

func TestSecret_GenerateValue(t *testing.T) {
	svc := newSecretService(mocks.NewStore(t))

	value, err := svc.GenerateValue(0)
	require.NoError(t, err)
	assert.Len(t, value, passgen.DefaultLength)

	value, err = svc.GenerateValue(24)
	require.NoError(t, err)
	assert.Len(t, value, 24)

	_, err = svc.GenerateValue(4)
	assert.ErrorIs(t, err, model.ErrValidation)

	custom := NewSecret(mocks.NewStore(t), nil, 32, testutil.MakeNoopLogger())
	value, err = custom.GenerateValue(0)
	require.NoError(t, err)
	assert.Len(t, value, 32)
}

func TestSecret_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("creates secret and owner share in one transaction", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.UserStore.On("GetByID", mock.Anything, ownerID).Return(model.User{ID: ownerID}, nil)
		store.SecretStore.On("Create", mock.Anything, mock.MatchedBy(func(s model.Secret) bool {
			return s.Label == "mail" && s.Value == "pw" && s.CreatedBy == ownerID
		})).Return(nil)
		store.SecretStore.On("ShareWithUser", mock.Anything, mock.Anything, ownerID).Return(true, nil)

		secret, err := newSecretService(store).Create(ctx, " mail ", "pw", ownerID)
		require.NoError(t, err)
		assert.Equal(t, "mail", secret.Label)
		assert.Equal(t, 1, store.Transactions)
	})

	t.Run("empty label", func(t *testing.T) {
		store := mocks.NewStore(t)
		_, err := newSecretService(store).Create(ctx, "  ", "pw", ownerID)
		assert.ErrorIs(t, err, model.ErrValidation)
		assert.Zero(t, store.Transactions)
	})

	t.Run("unknown owner", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.UserStore.On("GetByID", mock.Anything, ownerID).Return(model.User{}, model.ErrNotFound)

		_, err := newSecretService(store).Create(ctx, "mail", "pw", ownerID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("share failure is returned", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.UserStore.On("GetByID", mock.Anything, ownerID).Return(model.User{ID: ownerID}, nil)
		store.SecretStore.On("Create", mock.Anything, mock.Anything).Return(nil)
		store.SecretStore.On("ShareWithUser", mock.Anything, mock.Anything, ownerID).Return(false, errors.New("disk full"))

		_, err := newSecretService(store).Create(ctx, "mail", "pw", ownerID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to share secret with owner")
	})
}

func TestSecret_CreateInGroup(t *testing.T) {
	ctx := context.Background()
	adminID, otherID := uuid.New(), uuid.New()
	group := model.Group{ID: uuid.New(), Name: "ops", AdminID: adminID}

	t.Run("admin", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.GroupStore.On("GetByID", mock.Anything, group.ID).Return(group, nil)
		store.SecretStore.On("Create", mock.Anything, mock.Anything).Return(nil)
		store.SecretStore.On("ShareWithUser", mock.Anything, mock.Anything, adminID).Return(true, nil)
		store.GroupStore.On("LinkSecret", mock.Anything, group.ID, mock.Anything).Return(true, nil)

		secret, err := newSecretService(store).CreateInGroup(ctx, "db", "pw", group.ID, adminID)
		require.NoError(t, err)
		assert.Equal(t, adminID, secret.CreatedBy)
	})

	t.Run("not admin", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.GroupStore.On("GetByID", mock.Anything, group.ID).Return(group, nil)

		_, err := newSecretService(store).CreateInGroup(ctx, "db", "pw", group.ID, otherID)
		assert.ErrorIs(t, err, model.ErrAuthorization)
	})
}

func TestSecret_Delete(t *testing.T) {
	ctx := context.Background()
	creatorID, otherID := uuid.New(), uuid.New()
	secret := model.Secret{ID: uuid.New(), Label: "mail", CreatedBy: creatorID}

	t.Run("creator", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.SecretStore.On("GetByID", mock.Anything, secret.ID).Return(secret, nil)
		store.SecretStore.On("Delete", mock.Anything, secret.ID).Return(true, nil)

		deleted, err := newSecretService(store).Delete(ctx, secret.ID, creatorID)
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("non creator", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.SecretStore.On("GetByID", mock.Anything, secret.ID).Return(secret, nil)

		deleted, err := newSecretService(store).Delete(ctx, secret.ID, otherID)
		assert.ErrorIs(t, err, model.ErrAuthorization)
		assert.False(t, deleted)
		store.SecretStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unknown secret", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.SecretStore.On("GetByID", mock.Anything, secret.ID).Return(model.Secret{}, model.ErrNotFound)

		deleted, err := newSecretService(store).Delete(ctx, secret.ID, creatorID)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.False(t, deleted)
	})
}

func TestSecret_Get(t *testing.T) {
	ctx := context.Background()
	userID, secretID := uuid.New(), uuid.New()

	store := mocks.NewStore(t)
	store.AccessStore.On("GetReadable", mock.Anything, userID, secretID).Return(model.SecretView{}, model.ErrNotFound)

	_, err := newSecretService(store).Get(ctx, secretID, userID)
	require.ErrorIs(t, err, model.ErrNotFound)
	assert.True(t, strings.HasPrefix(model.Describe(err).Message, "secret "))
}

func TestSecret_ShareWithUser(t *testing.T) {
	ctx := context.Background()
	requesterID, targetID, secretID := uuid.New(), uuid.New(), uuid.New()

	t.Run("new share", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.AccessStore.On("CanRead", mock.Anything, requesterID, secretID).Return(true, nil)
		store.UserStore.On("GetByID", mock.Anything, targetID).Return(model.User{ID: targetID}, nil)
		store.AccessStore.On("CanRead", mock.Anything, targetID, secretID).Return(false, nil)
		store.SecretStore.On("ShareWithUser", mock.Anything, secretID, targetID).Return(true, nil)

		ok, err := newSecretService(store).ShareWithUser(ctx, secretID, targetID, requesterID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("target already reads", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.AccessStore.On("CanRead", mock.Anything, requesterID, secretID).Return(true, nil)
		store.UserStore.On("GetByID", mock.Anything, targetID).Return(model.User{ID: targetID}, nil)
		store.AccessStore.On("CanRead", mock.Anything, targetID, secretID).Return(true, nil)

		ok, err := newSecretService(store).ShareWithUser(ctx, secretID, targetID, requesterID)
		require.NoError(t, err)
		assert.True(t, ok)
		store.SecretStore.AssertNotCalled(t, "ShareWithUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("requester cannot read", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.AccessStore.On("CanRead", mock.Anything, requesterID, secretID).Return(false, nil)

		ok, err := newSecretService(store).ShareWithUser(ctx, secretID, targetID, requesterID)
		assert.ErrorIs(t, err, model.ErrAuthorization)
		assert.False(t, ok)
	})

	t.Run("unknown target", func(t *testing.T) {
		store := mocks.NewStore(t)
		store.AccessStore.On("CanRead", mock.Anything, requesterID, secretID).Return(true, nil)
		store.UserStore.On("GetByID", mock.Anything, targetID).Return(model.User{}, model.ErrNotFound)

		ok, err := newSecretService(store).ShareWithUser(ctx, secretID, targetID, requesterID)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.False(t, ok)
	})
}
