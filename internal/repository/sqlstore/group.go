package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/vaultkeeper/internal/model"
)

var _ model.GroupStore = (*GroupRepository)(nil)

type GroupRepository struct {
	gw gateway
}

func NewGroupRepository(db DBTX, dialect Dialect) *GroupRepository {
	return &GroupRepository{
		gw: newGateway(db, dialect),
	}
}

func (r *GroupRepository) Create(ctx context.Context, group model.Group) error {
	query := `INSERT INTO access_groups (id, name, admin_id, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.gw.exec(ctx, query, group.ID, group.Name, group.AdminID, group.CreatedAt); err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	return nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Group, error) {
	query := `SELECT id, name, admin_id, created_at FROM access_groups WHERE id = $1`

	var group model.Group
	err := r.gw.queryOne(ctx, query, []any{id},
		&group.ID, &group.Name, &group.AdminID, scanTime(&group.CreatedAt),
	)
	if err != nil {
		return model.Group{}, fmt.Errorf("failed to get group by id: %w", err)
	}

	return group, nil
}

func (r *GroupRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Group, error) {
	query := `
		SELECT g.id, g.name, g.admin_id, g.created_at
		FROM access_groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY g.created_at, g.name`

	var groups []model.Group
	err := r.gw.queryMany(ctx, query, []any{userID}, func(rows *sql.Rows) error {
		var group model.Group
		if err := rows.Scan(&group.ID, &group.Name, &group.AdminID, scanTime(&group.CreatedAt)); err != nil {
			return err
		}
		groups = append(groups, group)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by user: %w", err)
	}

	return groups, nil
}

func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	query := `INSERT INTO group_members (user_id, group_id) VALUES ($1, $2)
			  ON CONFLICT (user_id, group_id) DO NOTHING`

	n, err := r.gw.exec(ctx, query, userID, groupID)
	if err != nil {
		return false, fmt.Errorf("failed to add group member: %w", err)
	}

	return n > 0, nil
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM group_members WHERE user_id = $1 AND group_id = $2`

	n, err := r.gw.exec(ctx, query, userID, groupID)
	if err != nil {
		return false, fmt.Errorf("failed to remove group member: %w", err)
	}

	return n > 0, nil
}

func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM group_members WHERE user_id = $1 AND group_id = $2)`

	ok, err := r.gw.exists(ctx, query, userID, groupID)
	if err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}

	return ok, nil
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]model.User, error) {
	query := `
		SELECT u.id, u.last_name, u.first_name, u.email, u.password_hash, u.created_at
		FROM users u
		JOIN group_members m ON m.user_id = u.id
		WHERE m.group_id = $1
		ORDER BY u.last_name, u.first_name`

	var users []model.User
	err := r.gw.queryMany(ctx, query, []any{groupID}, func(rows *sql.Rows) error {
		var user model.User
		err := rows.Scan(&user.ID, &user.LastName, &user.FirstName, &user.Email, &user.PasswordHash, scanTime(&user.CreatedAt))
		if err != nil {
			return err
		}
		users = append(users, user)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}

	return users, nil
}

func (r *GroupRepository) LinkSecret(ctx context.Context, groupID, secretID uuid.UUID) (bool, error) {
	query := `INSERT INTO secret_group_shares (group_id, secret_id) VALUES ($1, $2)
			  ON CONFLICT (group_id, secret_id) DO NOTHING`

	n, err := r.gw.exec(ctx, query, groupID, secretID)
	if err != nil {
		return false, fmt.Errorf("failed to link secret to group: %w", err)
	}

	return n > 0, nil
}

func (r *GroupRepository) ListSecrets(ctx context.Context, groupID uuid.UUID) ([]model.SecretView, error) {
	query := `
		SELECT ` + secretViewColumns + `
		FROM secrets s
		JOIN secret_group_shares gs ON gs.secret_id = s.id
		JOIN users u ON u.id = s.created_by
		WHERE gs.group_id = $1
		ORDER BY s.created_at DESC, s.id`

	var views []model.SecretView
	err := r.gw.queryMany(ctx, query, []any{groupID}, func(rows *sql.Rows) error {
		view, err := scanSecretView(rows)
		if err != nil {
			return err
		}
		views = append(views, view)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list group secrets: %w", err)
	}

	return views, nil
}
