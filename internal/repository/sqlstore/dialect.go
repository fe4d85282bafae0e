package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Dialect identifies the relational backend behind a Connection.
type Dialect string

const (
	// DialectPostgres talks to PostgreSQL through pgx.
	DialectPostgres Dialect = "postgres"
	// DialectSQLite talks to an SQLite file or in-memory database.
	DialectSQLite Dialect = "sqlite"
)

// ParseDialect validates a configured driver name.
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(name) {
	case DialectPostgres, DialectSQLite:
		return Dialect(name), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

func (d Dialect) driverName() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "pgx"
}

func (d Dialect) gooseDialect() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return "postgres"
}

func (d Dialect) migrationsDir() string {
	return "migrations/" + string(d)
}

// dataSourceName adds the settings every SQLite connection needs. The
// driver applies _pragma parameters to each connection it opens, so a
// replaced pool connection still enforces foreign keys.
func (d Dialect) dataSourceName(dsn string) string {
	if d != DialectSQLite || strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// wrap adapts statements written with $N placeholders to the dialect.
func (d Dialect) wrap(db DBTX) DBTX {
	if d == DialectSQLite {
		return sqliteDBTX{db: db}
	}
	return db
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02 15:04:05.000000000"

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// sqliteDBTX rewrites $N placeholders into SQLite's numbered ?N form and
// stores timestamps as UTC text.
type sqliteDBTX struct {
	db DBTX
}

func (s sqliteDBTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, rebind(query), sqliteArgs(args)...)
}

func (s sqliteDBTX) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, rebind(query), sqliteArgs(args)...)
}

func (s sqliteDBTX) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, rebind(query), sqliteArgs(args)...)
}

func rebind(query string) string {
	return placeholderRe.ReplaceAllString(query, "?$1")
}

func sqliteArgs(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		if t, ok := arg.(time.Time); ok {
			out[i] = t.UTC().Format(timeLayout)
			continue
		}
		out[i] = arg
	}
	return out
}
