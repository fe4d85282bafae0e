package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/dtroode/vaultkeeper/internal/logger"
	"github.com/dtroode/vaultkeeper/internal/model"
)

var _ model.Store = (*Connection)(nil)

// Connection owns the database handle and implements model.Store on top of it.
type Connection struct {
	*store
	logger *logger.Logger
}

// NewConnection opens the database, checks it is reachable and applies the
// schema migrations.
func NewConnection(ctx context.Context, dialect Dialect, dsn string, logger *logger.Logger) (*Connection, error) {
	db, err := sql.Open(dialect.driverName(), dialect.dataSourceName(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		// one connection keeps :memory: databases alive and serializes writers
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}

	if err := Migrate(ctx, db, dialect, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Connection{
		store:  &store{db: db, dialect: dialect},
		logger: logger,
	}, nil
}

// Dialect returns the backend the connection talks to.
func (c *Connection) Dialect() Dialect {
	return c.dialect
}

func (c *Connection) Close() error {
	if c.store == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Connection) Ping(ctx context.Context) error {
	if c.store == nil || c.db == nil {
		return fmt.Errorf("connection is not open")
	}
	return c.db.PingContext(ctx)
}

// store implements model.Store over a pooled handle, or over a running
// transaction when tx is set.
type store struct {
	db      *sql.DB
	tx      *sql.Tx
	dialect Dialect
}

func (s *store) handle() DBTX {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *store) Users() model.UserStore {
	return NewUserRepository(s.handle(), s.dialect)
}

func (s *store) Groups() model.GroupStore {
	return NewGroupRepository(s.handle(), s.dialect)
}

func (s *store) Secrets() model.SecretStore {
	return NewSecretRepository(s.handle(), s.dialect)
}

func (s *store) Access() model.AccessStore {
	return NewAccessRepository(s.handle(), s.dialect)
}

func (s *store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx model.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}

	return WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, &store{db: s.db, tx: tx, dialect: s.dialect})
	})
}

// Migrate applies pending schema migrations. NewConnection already does this
// on open, so the call is a no-op unless the schema changed underneath.
func (c *Connection) Migrate(ctx context.Context) error {
	return Migrate(ctx, c.db, c.dialect, c.logger)
}
