package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/vaultkeeper/internal/testutil"
)

func TestMigrate(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	t.Run("uses dialect directory", func(t *testing.T) {
		var gotDir string
		gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
			gotDir = dir
			return nil
		}

		require.NoError(t, Migrate(context.Background(), db, DialectPostgres, testutil.MakeNoopLogger()))
		assert.Equal(t, "migrations/postgres", gotDir)
	})

	t.Run("wraps goose error", func(t *testing.T) {
		boom := errors.New("boom")
		gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
			return boom
		}

		err := Migrate(context.Background(), db, DialectSQLite, testutil.MakeNoopLogger())
		assert.ErrorIs(t, err, boom)
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	for _, d := range []Dialect{DialectPostgres, DialectSQLite} {
		entries, err := migrations.ReadDir(d.migrationsDir())
		require.NoError(t, err)
		assert.NotEmpty(t, entries, "no migrations for %s", d)
	}
}
