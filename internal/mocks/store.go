package mocks

import (
	"context"
	"testing"

	"github.com/dtroode/vaultkeeper/internal/model"
)

var _ model.Store = (*Store)(nil)

// Store bundles repository mocks. WithinTx runs the callback against the
// same mocks and counts the transactions it opened.
type Store struct {
	UserStore   *UserStore
	GroupStore  *GroupStore
	SecretStore *SecretStore
	AccessStore *AccessStore

	Transactions int
}

// NewStore creates a Store whose mocks assert their expectations when the
// test finishes.
func NewStore(t *testing.T) *Store {
	s := &Store{
		UserStore:   &UserStore{},
		GroupStore:  &GroupStore{},
		SecretStore: &SecretStore{},
		AccessStore: &AccessStore{},
	}
	t.Cleanup(func() {
		s.UserStore.AssertExpectations(t)
		s.GroupStore.AssertExpectations(t)
		s.SecretStore.AssertExpectations(t)
		s.AccessStore.AssertExpectations(t)
	})
	return s
}

func (s *Store) Users() model.UserStore     { return s.UserStore }
func (s *Store) Groups() model.GroupStore   { return s.GroupStore }
func (s *Store) Secrets() model.SecretStore { return s.SecretStore }
func (s *Store) Access() model.AccessStore  { return s.AccessStore }

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx model.Store) error) error {
	s.Transactions++
	return fn(ctx, s)
}
