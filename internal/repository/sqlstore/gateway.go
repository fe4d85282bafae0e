package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
)

// gateway executes parameterized statements for a repository. Statements
// are written with $N placeholders and adapted to the dialect.
type gateway struct {
	db DBTX
}

func newGateway(db DBTX, dialect Dialect) gateway {
	return gateway{db: dialect.wrap(db)}
}

// exec runs a statement and returns the number of affected rows.
func (g gateway) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := g.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

// queryOne scans a single row. A missing row yields model.ErrNotFound.
func (g gateway) queryOne(ctx context.Context, query string, args []any, dest ...any) error {
	if err := g.db.QueryRowContext(ctx, query, args...).Scan(dest...); err != nil {
		return translateError(err)
	}
	return nil
}

// queryMany runs a query and calls scan for every row.
func (g gateway) queryMany(ctx context.Context, query string, args []any, scan func(rows *sql.Rows) error) error {
	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return translateError(err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}

// exists evaluates a SELECT EXISTS (...) statement.
func (g gateway) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := g.queryOne(ctx, query, args, &ok); err != nil {
		return false, err
	}
	return ok, nil
}
