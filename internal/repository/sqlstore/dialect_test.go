package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/vaultkeeper/internal/testutil"
)

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, DialectPostgres, d)

	d, err = ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, DialectSQLite, d)

	_, err = ParseDialect("mysql")
	assert.Error(t, err)
}

func TestDialect_Drivers(t *testing.T) {
	assert.Equal(t, "pgx", DialectPostgres.driverName())
	assert.Equal(t, "sqlite", DialectSQLite.driverName())
	assert.Equal(t, "postgres", DialectPostgres.gooseDialect())
	assert.Equal(t, "sqlite3", DialectSQLite.gooseDialect())
	assert.Equal(t, "migrations/sqlite", DialectSQLite.migrationsDir())
}

func TestRebind(t *testing.T) {
	query := `SELECT 1 FROM t WHERE a = $2 AND b = $1 AND c = $10`
	assert.Equal(t, `SELECT 1 FROM t WHERE a = ?2 AND b = ?1 AND c = ?10`, rebind(query))
}

func TestSQLiteArgs(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := time.Date(2024, 5, 1, 15, 4, 5, 123, loc)

	args := sqliteArgs([]any{"x", 42, ts})

	assert.Equal(t, "x", args[0])
	assert.Equal(t, 42, args[1])
	assert.Equal(t, "2024-05-01 12:04:05.000000123", args[2])
}

func TestTimestamp_Scan(t *testing.T) {
	want := time.Date(2024, 5, 1, 12, 4, 5, 123, time.UTC)

	tests := []struct {
		name string
		src  any
		want time.Time
	}{
		{name: "native", src: want, want: want},
		{name: "fixed width text", src: "2024-05-01 12:04:05.000000123", want: want},
		{name: "bytes", src: []byte("2024-05-01 12:04:05.000000123"), want: want},
		{name: "sqlite default", src: "2024-05-01 12:04:05", want: want.Truncate(time.Second)},
		{name: "null", src: nil, want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got time.Time
			require.NoError(t, scanTime(&got).Scan(tt.src))
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	var got time.Time
	assert.Error(t, scanTime(&got).Scan("yesterday"))
	assert.Error(t, scanTime(&got).Scan(3.14))
}

func TestDialect_DataSourceName(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		dsn     string
		want    string
	}{
		{name: "memory", dialect: DialectSQLite, dsn: ":memory:", want: ":memory:?_pragma=foreign_keys(1)"},
		{name: "file with params", dialect: DialectSQLite, dsn: "file:vault.db?cache=shared", want: "file:vault.db?cache=shared&_pragma=foreign_keys(1)"},
		{name: "explicit pragma kept", dialect: DialectSQLite, dsn: "vault.db?_pragma=foreign_keys(0)", want: "vault.db?_pragma=foreign_keys(0)"},
		{name: "postgres untouched", dialect: DialectPostgres, dsn: "postgres://u:p@host/db", want: "postgres://u:p@host/db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.dataSourceName(tt.dsn))
		})
	}
}

func TestNewConnection_ForeignKeysOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "vault.db")

	conn, err := NewConnection(ctx, DialectSQLite, dsn, testutil.MakeNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// no idle connections: every statement below runs on a freshly opened one
	conn.db.SetMaxIdleConns(0)

	for i := 0; i < 3; i++ {
		var enabled int
		require.NoError(t, conn.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
		assert.Equal(t, 1, enabled)
	}
}
