package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dtroode/vaultkeeper/internal/model"
)

// PostgreSQL SQLSTATE codes for constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// translateError maps driver errors onto the model error classes. The
// driver error stays in the chain for logging.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %w", model.ErrConflict, err)
		case pgForeignKeyViolation, pgNotNullViolation, pgCheckViolation:
			return fmt.Errorf("%w: %w", model.ErrIntegrity, err)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", model.ErrConflict, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_NOTNULL, sqlite3.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%w: %w", model.ErrIntegrity, err)
		}
		// primary code only when extended result codes are off
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			if strings.Contains(liteErr.Error(), "UNIQUE") {
				return fmt.Errorf("%w: %w", model.ErrConflict, err)
			}
			return fmt.Errorf("%w: %w", model.ErrIntegrity, err)
		}
	}

	return err
}
