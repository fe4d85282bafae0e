package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/vaultkeeper/internal/model"
)

var _ model.AccessStore = (*AccessRepository)(nil)

// AccessRepository holds the reachability queries of the sharing graph.
// Every read path that decides whether a user sees a secret goes through
// the predicates below.
type AccessRepository struct {
	gw gateway
}

func NewAccessRepository(db DBTX, dialect Dialect) *AccessRepository {
	return &AccessRepository{
		gw: newGateway(db, dialect),
	}
}

// canReadQuery unions the three access paths for user $1 and secret $2.
const canReadQuery = `
	SELECT EXISTS (
		SELECT 1 FROM secrets s
		WHERE s.id = $2 AND s.created_by = $1
		UNION ALL
		SELECT 1 FROM secret_user_shares us
		WHERE us.secret_id = $2 AND us.user_id = $1
		UNION ALL
		SELECT 1 FROM secret_group_shares gs
		JOIN group_members m ON m.group_id = gs.group_id
		WHERE gs.secret_id = $2 AND m.user_id = $1
	)`

// readableBy is the same union as a predicate on secrets aliased as s, for
// user $1.
const readableBy = `(
		s.created_by = $1
		OR EXISTS (
			SELECT 1 FROM secret_user_shares us
			WHERE us.secret_id = s.id AND us.user_id = $1
		)
		OR EXISTS (
			SELECT 1 FROM secret_group_shares gs
			JOIN group_members m ON m.group_id = gs.group_id
			WHERE gs.secret_id = s.id AND m.user_id = $1
		)
	)`

func (r *AccessRepository) CanRead(ctx context.Context, userID, secretID uuid.UUID) (bool, error) {
	ok, err := r.gw.exists(ctx, canReadQuery, userID, secretID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve secret access: %w", err)
	}

	return ok, nil
}

func (r *AccessRepository) ListReadable(ctx context.Context, userID uuid.UUID) ([]model.SecretView, error) {
	query := `
		SELECT ` + secretViewColumns + `
		FROM secrets s
		JOIN users u ON u.id = s.created_by
		WHERE ` + readableBy + `
		ORDER BY s.created_at DESC, s.id`

	var views []model.SecretView
	err := r.gw.queryMany(ctx, query, []any{userID}, func(rows *sql.Rows) error {
		view, err := scanSecretView(rows)
		if err != nil {
			return err
		}
		views = append(views, view)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list readable secrets: %w", err)
	}

	return views, nil
}

func (r *AccessRepository) GetReadable(ctx context.Context, userID, secretID uuid.UUID) (model.SecretView, error) {
	query := `
		SELECT ` + secretViewColumns + `
		FROM secrets s
		JOIN users u ON u.id = s.created_by
		WHERE s.id = $2 AND ` + readableBy

	rows, err := r.gw.db.QueryContext(ctx, query, userID, secretID)
	if err != nil {
		return model.SecretView{}, fmt.Errorf("failed to get readable secret: %w", translateError(err))
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.SecretView{}, fmt.Errorf("failed to get readable secret: %w", translateError(err))
		}
		return model.SecretView{}, fmt.Errorf("failed to get readable secret: %w", model.ErrNotFound)
	}

	return scanSecretView(rows)
}
