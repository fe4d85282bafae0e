package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/vaultkeeper/internal/logger"
	"github.com/dtroode/vaultkeeper/internal/model"
)

// Group manages groups, their members and the secrets linked to them. Every
// mutation is reserved to the group admin.
type Group struct {
	store  model.Store
	access *Access
	logger *logger.Logger
}

func NewGroup(store model.Store, access *Access, logger *logger.Logger) *Group {
	return &Group{
		store:  store,
		access: access,
		logger: logger,
	}
}

// CreateGroup creates a group administered by adminID, who becomes its
// first member.
func (g *Group) CreateGroup(ctx context.Context, name string, adminID uuid.UUID) (model.Group, error) {
	name = strings.TrimSpace(name)

	g.logger.Debug("Group service: creating group",
		"name", name,
		"admin_id", adminID)

	if name == "" {
		return model.Group{}, fmt.Errorf("%w: group name is required", model.ErrValidation)
	}

	group := model.Group{
		ID:        uuid.New(),
		Name:      name,
		AdminID:   adminID,
		CreatedAt: time.Now().UTC(),
	}

	err := g.store.WithinTx(ctx, func(ctx context.Context, tx model.Store) error {
		if _, err := lookupUser(ctx, tx, adminID); err != nil {
			return err
		}
		if err := tx.Groups().Create(ctx, group); err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		if _, err := tx.Groups().AddMember(ctx, group.ID, adminID); err != nil {
			return fmt.Errorf("failed to add group admin: %w", err)
		}
		return nil
	})
	if err != nil {
		g.logFailure("failed to create group", err, "admin_id", adminID)
		return model.Group{}, err
	}

	g.logger.Info("Group service: group created",
		"group_id", group.ID,
		"admin_id", adminID)

	return group, nil
}

func (g *Group) GetGroup(ctx context.Context, groupID uuid.UUID) (model.Group, error) {
	return lookupGroup(ctx, g.store, groupID)
}

// AddMember adds the user identified by target, a user id or an email, to
// the group. The Result carries a message for every outcome.
func (g *Group) AddMember(ctx context.Context, groupID uuid.UUID, target string, requesterID uuid.UUID) (model.Result, error) {
	target = strings.TrimSpace(target)

	g.logger.Debug("Group service: adding member",
		"group_id", groupID,
		"target", target,
		"requester_id", requesterID)

	var (
		group  model.Group
		member model.User
	)
	err := g.store.WithinTx(ctx, func(ctx context.Context, tx model.Store) error {
		var err error
		group, err = g.adminGroup(ctx, tx, groupID, requesterID, "add members")
		if err != nil {
			return err
		}

		member, err = resolveUser(ctx, tx, target)
		if err != nil {
			return err
		}

		added, err := tx.Groups().AddMember(ctx, group.ID, member.ID)
		if err != nil {
			return fmt.Errorf("failed to add group member: %w", err)
		}
		if !added {
			return fmt.Errorf("%w: %s is already a member of group %q", model.ErrConflict, member.DisplayName(), group.Name)
		}
		return nil
	})
	if err != nil {
		g.logFailure("failed to add member", err, "group_id", groupID, "target", target)
		return model.Describe(err), err
	}

	g.logger.Info("Group service: member added",
		"group_id", groupID,
		"user_id", member.ID)

	return model.OK(fmt.Sprintf("%s added to group %q", member.DisplayName(), group.Name)), nil
}

// RemoveMember removes a member from the group. The admin cannot be removed.
func (g *Group) RemoveMember(ctx context.Context, groupID, targetID, requesterID uuid.UUID) (bool, error) {
	g.logger.Debug("Group service: removing member",
		"group_id", groupID,
		"target_id", targetID,
		"requester_id", requesterID)

	var removed bool
	err := g.store.WithinTx(ctx, func(ctx context.Context, tx model.Store) error {
		group, err := g.adminGroup(ctx, tx, groupID, requesterID, "remove members")
		if err != nil {
			return err
		}
		if group.IsAdmin(targetID) {
			return fmt.Errorf("%w: the admin of group %q cannot be removed", model.ErrAuthorization, group.Name)
		}
		removed, err = tx.Groups().RemoveMember(ctx, group.ID, targetID)
		if err != nil {
			return fmt.Errorf("failed to remove group member: %w", err)
		}
		return nil
	})
	if err != nil {
		g.logFailure("failed to remove member", err, "group_id", groupID, "target_id", targetID)
		return false, err
	}

	g.logger.Info("Group service: member removed",
		"group_id", groupID,
		"target_id", targetID,
		"removed", removed)

	return removed, nil
}

// LinkSecret shares a secret with every member of the group. The admin must
// be able to read the secret. Linking an already linked secret succeeds.
func (g *Group) LinkSecret(ctx context.Context, groupID, secretID, requesterID uuid.UUID) (bool, error) {
	g.logger.Debug("Group service: linking secret",
		"group_id", groupID,
		"secret_id", secretID,
		"requester_id", requesterID)

	var added bool
	err := g.store.WithinTx(ctx, func(ctx context.Context, tx model.Store) error {
		group, err := g.adminGroup(ctx, tx, groupID, requesterID, "link secrets")
		if err != nil {
			return err
		}

		secret, err := lookupSecret(ctx, tx, secretID)
		if err != nil {
			return err
		}

		ok, err := g.access.in(tx).CanRead(ctx, requesterID, secret.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: you cannot link a secret you cannot read", model.ErrAuthorization)
		}

		added, err = tx.Groups().LinkSecret(ctx, group.ID, secret.ID)
		if err != nil {
			return fmt.Errorf("failed to link secret: %w", err)
		}
		return nil
	})
	if err != nil {
		g.logFailure("failed to link secret", err, "group_id", groupID, "secret_id", secretID)
		return false, err
	}

	g.logger.Info("Group service: secret linked",
		"group_id", groupID,
		"secret_id", secretID,
		"new_link", added)

	return true, nil
}

// ListMembers lists the group's members to one of them, ordered by name.
func (g *Group) ListMembers(ctx context.Context, groupID, requesterID uuid.UUID) ([]model.Member, error) {
	group, err := g.memberGroup(ctx, groupID, requesterID)
	if err != nil {
		return nil, err
	}

	users, err := g.store.Groups().ListMembers(ctx, group.ID)
	if err != nil {
		g.logFailure("failed to list members", err, "group_id", groupID)
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}

	members := make([]model.Member, 0, len(users))
	for _, u := range users {
		members = append(members, model.Member{User: u, IsAdmin: group.IsAdmin(u.ID)})
	}

	return members, nil
}

// ListSecrets lists the secrets linked to the group to one of its members.
func (g *Group) ListSecrets(ctx context.Context, groupID, requesterID uuid.UUID) ([]model.SecretView, error) {
	group, err := g.memberGroup(ctx, groupID, requesterID)
	if err != nil {
		return nil, err
	}

	views, err := g.store.Groups().ListSecrets(ctx, group.ID)
	if err != nil {
		g.logFailure("failed to list secrets", err, "group_id", groupID)
		return nil, fmt.Errorf("failed to list group secrets: %w", err)
	}

	return views, nil
}

func (g *Group) ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]model.Group, error) {
	groups, err := g.store.Groups().ListByUser(ctx, userID)
	if err != nil {
		g.logFailure("failed to list groups", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// adminGroup loads the group and checks that requesterID administers it.
func (g *Group) adminGroup(ctx context.Context, tx model.Store, groupID, requesterID uuid.UUID, action string) (model.Group, error) {
	group, err := lookupGroup(ctx, tx, groupID)
	if err != nil {
		return model.Group{}, err
	}
	if !group.IsAdmin(requesterID) {
		return model.Group{}, fmt.Errorf("%w: only the admin of group %q can %s", model.ErrAuthorization, group.Name, action)
	}
	return group, nil
}

// memberGroup loads the group and checks that requesterID belongs to it.
func (g *Group) memberGroup(ctx context.Context, groupID, requesterID uuid.UUID) (model.Group, error) {
	group, err := lookupGroup(ctx, g.store, groupID)
	if err != nil {
		g.logFailure("failed to get group", err, "group_id", groupID)
		return model.Group{}, err
	}

	ok, err := g.store.Groups().IsMember(ctx, group.ID, requesterID)
	if err != nil {
		g.logFailure("failed to check membership", err, "group_id", groupID)
		return model.Group{}, fmt.Errorf("failed to check group membership: %w", err)
	}
	if !ok {
		err := fmt.Errorf("%w: you are not a member of group %q", model.ErrAuthorization, group.Name)
		g.logFailure("membership required", err, "group_id", groupID, "requester_id", requesterID)
		return model.Group{}, err
	}

	return group, nil
}

func (g *Group) logFailure(msg string, err error, args ...any) {
	logFailure(g.logger, "Group service: "+msg, err, args...)
}

// resolveUser finds a user by id or, failing that, by email.
func resolveUser(ctx context.Context, store model.Store, target string) (model.User, error) {
	if id, err := uuid.Parse(target); err == nil {
		return lookupUser(ctx, store, id)
	}
	if !ValidEmail(target) {
		return model.User{}, fmt.Errorf("%w: %q is neither a user id nor an email address", model.ErrValidation, target)
	}
	return lookupUserByEmail(ctx, store, target)
}
