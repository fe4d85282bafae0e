package model

import "context"

// Store bundles the repositories one unit of work operates on.
type Store interface {
	Users() UserStore
	Groups() GroupStore
	Secrets() SecretStore
	Access() AccessStore

	// WithinTx runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Calling WithinTx on a transactional view joins the running transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
