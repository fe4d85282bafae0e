package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/vaultkeeper/internal/model"
)

var _ model.SecretStore = (*SecretRepository)(nil)

type SecretRepository struct {
	gw gateway
}

func NewSecretRepository(db DBTX, dialect Dialect) *SecretRepository {
	return &SecretRepository{
		gw: newGateway(db, dialect),
	}
}

// secretViewColumns expects secrets aliased as s and their creator as u.
const secretViewColumns = `s.id, s.label, s.value, s.created_by, s.created_at, u.first_name, u.last_name`

func (r *SecretRepository) Create(ctx context.Context, secret model.Secret) error {
	query := `INSERT INTO secrets (id, label, value, created_by, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := r.gw.exec(ctx, query,
		secret.ID, secret.Label, secret.Value, secret.CreatedBy, secret.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create secret: %w", err)
	}

	return nil
}

func (r *SecretRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Secret, error) {
	query := `SELECT id, label, value, created_by, created_at FROM secrets WHERE id = $1`

	var secret model.Secret
	err := r.gw.queryOne(ctx, query, []any{id},
		&secret.ID, &secret.Label, &secret.Value, &secret.CreatedBy, scanTime(&secret.CreatedAt),
	)
	if err != nil {
		return model.Secret{}, fmt.Errorf("failed to get secret by id: %w", err)
	}

	return secret, nil
}

func (r *SecretRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := r.gw.exec(ctx, `DELETE FROM secret_user_shares WHERE secret_id = $1`, id); err != nil {
		return false, fmt.Errorf("failed to delete user shares: %w", err)
	}

	if _, err := r.gw.exec(ctx, `DELETE FROM secret_group_shares WHERE secret_id = $1`, id); err != nil {
		return false, fmt.Errorf("failed to delete group shares: %w", err)
	}

	n, err := r.gw.exec(ctx, `DELETE FROM secrets WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete secret: %w", err)
	}

	return n > 0, nil
}

func (r *SecretRepository) ShareWithUser(ctx context.Context, secretID, userID uuid.UUID) (bool, error) {
	query := `INSERT INTO secret_user_shares (user_id, secret_id) VALUES ($1, $2)
			  ON CONFLICT (user_id, secret_id) DO NOTHING`

	n, err := r.gw.exec(ctx, query, userID, secretID)
	if err != nil {
		return false, fmt.Errorf("failed to share secret with user: %w", err)
	}

	return n > 0, nil
}

func scanSecretView(rows *sql.Rows) (model.SecretView, error) {
	var view model.SecretView
	err := rows.Scan(
		&view.ID, &view.Label, &view.Value, &view.CreatedBy, scanTime(&view.CreatedAt),
		&view.CreatorFirstName, &view.CreatorLastName,
	)
	if err != nil {
		return model.SecretView{}, fmt.Errorf("failed to scan secret: %w", err)
	}
	return view, nil
}
