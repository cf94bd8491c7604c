package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/models"
	"github.com/dotcommander/huddle/internal/store"
)

func (l *Local) registerMembers() {
	// A non-member gets a null reply rather than an error.
	query(l, api.CurrentMember, func(ctx context.Context, in api.WorkspaceArgs) (*models.Member, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}
		m, err := store.GetMemberByUser(l.db, in.WorkspaceID, userID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return m, err
	})

	query(l, api.GetMember, func(ctx context.Context, in api.IDArgs) (*models.MemberWithUser, error) {
		m, err := store.GetMemberWithUser(l.db, in.ID)
		if err != nil {
			return nil, err
		}
		if _, err := memberFromContext(ctx, l.db, m.WorkspaceID); err != nil {
			return nil, err
		}
		return m, nil
	})

	query(l, api.ListMembers, func(ctx context.Context, in api.WorkspaceArgs) ([]*models.MemberWithUser, error) {
		if _, err := memberFromContext(ctx, l.db, in.WorkspaceID); err != nil {
			return nil, err
		}
		return store.ListMembers(l.db, in.WorkspaceID)
	})

	mutate(l, api.UpdateMember, func(tx *sql.Tx, userID string, in api.UpdateMemberArgs) (string, error) {
		if !in.Role.Valid() {
			return "", api.Errorf(api.CodeInvalidArgument, "role must be %q or %q", models.RoleAdmin, models.RoleMember)
		}
		target, err := store.GetMember(tx, in.ID)
		if err != nil {
			return "", err
		}
		if _, err := adminOf(tx, target.WorkspaceID, userID); err != nil {
			return "", err
		}
		if target.IsAdmin() && in.Role != models.RoleAdmin {
			admins, err := store.CountAdmins(tx, target.WorkspaceID)
			if err != nil {
				return "", err
			}
			if admins <= 1 {
				return "", api.Errorf(api.CodeForbidden, "a workspace needs at least one admin")
			}
		}
		if err := store.UpdateMemberRoleTx(tx, in.ID, in.Role); err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindMemberRoleChanged, userID, target.WorkspaceID, fmt.Sprintf("Member %s role: %s -> %s", in.ID, target.Role, in.Role)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return in.ID, nil
	})

	// Admins remove members; members may leave. Admins cannot be removed;
	// together with the last-admin check above no workspace loses its admins.
	mutate(l, api.RemoveMember, func(tx *sql.Tx, userID string, in api.IDArgs) (string, error) {
		target, err := store.GetMember(tx, in.ID)
		if err != nil {
			return "", err
		}
		current, err := membership(tx, target.WorkspaceID, userID)
		if err != nil {
			return "", err
		}
		self := current.ID == target.ID
		if !self && !current.IsAdmin() {
			return "", api.Errorf(api.CodeForbidden, "only workspace admins can remove other members")
		}
		if target.IsAdmin() {
			if self {
				return "", api.Errorf(api.CodeForbidden, "admins cannot leave their workspace")
			}
			return "", api.Errorf(api.CodeForbidden, "admins cannot be removed")
		}
		if err := store.DeleteMemberTx(tx, in.ID); err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindMemberRemoved, userID, target.WorkspaceID, fmt.Sprintf("Member removed: %s", in.ID)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return in.ID, nil
	})
}
