package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/vaultkeeper/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	gw gateway
}

func NewUserRepository(db DBTX, dialect Dialect) *UserRepository {
	return &UserRepository{
		gw: newGateway(db, dialect),
	}
}

const userColumns = `id, last_name, first_name, email, password_hash, created_at`

func (r *UserRepository) Create(ctx context.Context, user model.User) error {
	query := `INSERT INTO users (id, last_name, first_name, email, password_hash, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.gw.exec(ctx, query,
		user.ID, user.LastName, user.FirstName, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := r.getOne(ctx, query, id)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := r.getOne(ctx, query, email)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var user model.User
	err := r.gw.queryOne(ctx, query, []any{arg},
		&user.ID, &user.LastName, &user.FirstName, &user.Email, &user.PasswordHash, scanTime(&user.CreatedAt),
	)
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}
