package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/dtroode/vaultkeeper/internal/logger"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded schema migrations for the dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect, log *logger.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect(dialect.gooseDialect()); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, dialect.migrationsDir()); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// gooseLogger routes goose output through the application logger.
type gooseLogger struct {
	log *logger.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}
