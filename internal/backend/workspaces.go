package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/models"
	"github.com/dotcommander/huddle/internal/store"
)

// DefaultChannelName is created with every workspace.
const DefaultChannelName = "general"

func (l *Local) registerWorkspaces() {
	mutate(l, api.CreateWorkspace, func(tx *sql.Tx, userID string, in api.CreateWorkspaceArgs) (string, error) {
		name, err := ValidateName("workspace", in.Name)
		if err != nil {
			return "", err
		}
		if _, err := store.GetUser(tx, userID); err != nil {
			return "", err
		}

		w, err := store.CreateWorkspaceTx(tx, name, userID)
		if err != nil {
			return "", err
		}
		if _, err := store.CreateMemberTx(tx, userID, w.ID, models.RoleAdmin); err != nil {
			return "", err
		}
		if _, err := store.CreateChannelTx(tx, w.ID, DefaultChannelName); err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindWorkspaceCreated, userID, w.ID, fmt.Sprintf("Workspace created: %s", w.Name)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return w.ID, nil
	})

	query(l, api.GetWorkspace, func(ctx context.Context, in api.IDArgs) (*models.Workspace, error) {
		if _, err := memberFromContext(ctx, l.db, in.ID); err != nil {
			return nil, err
		}
		return store.GetWorkspace(l.db, in.ID)
	})

	query(l, api.ListWorkspaces, func(ctx context.Context, _ api.NoArgs) ([]*models.Workspace, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}
		return store.ListWorkspacesForUser(l.db, userID)
	})

	// Visible to non-members so they can decide whether to join.
	query(l, api.GetWorkspaceInfo, func(ctx context.Context, in api.IDArgs) (*models.WorkspaceInfo, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}
		w, err := store.GetWorkspace(l.db, in.ID)
		if err != nil {
			return nil, err
		}
		_, err = store.GetMemberByUser(l.db, in.ID, userID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return &models.WorkspaceInfo{Name: w.Name, IsMember: err == nil}, nil
	})

	mutate(l, api.UpdateWorkspace, func(tx *sql.Tx, userID string, in api.UpdateWorkspaceArgs) (string, error) {
		name, err := ValidateName("workspace", in.Name)
		if err != nil {
			return "", err
		}
		if _, err := adminOf(tx, in.ID, userID); err != nil {
			return "", err
		}
		if err := store.UpdateWorkspaceNameTx(tx, in.ID, name); err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindWorkspaceUpdated, userID, in.ID, fmt.Sprintf("Workspace renamed: %s", name)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return in.ID, nil
	})

	mutate(l, api.RemoveWorkspace, func(tx *sql.Tx, userID string, in api.IDArgs) (string, error) {
		if _, err := adminOf(tx, in.ID, userID); err != nil {
			return "", err
		}
		w, err := store.GetWorkspace(tx, in.ID)
		if err != nil {
			return "", err
		}
		if err := store.DeleteWorkspaceTx(tx, in.ID); err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindWorkspaceRemoved, userID, in.ID, fmt.Sprintf("Workspace removed: %s", w.Name)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return in.ID, nil
	})

	mutate(l, api.JoinWorkspace, func(tx *sql.Tx, userID string, in api.JoinWorkspaceArgs) (string, error) {
		w, err := store.GetWorkspace(tx, in.ID)
		if err != nil {
			return "", err
		}
		if !strings.EqualFold(strings.TrimSpace(in.JoinCode), w.JoinCode) {
			return "", api.Errorf(api.CodeInvalidArgument, "invalid join code")
		}
		_, err = store.GetMemberByUser(tx, in.ID, userID)
		if err == nil {
			return "", api.Errorf(api.CodeConflict, "already a member of this workspace").With("workspace_id", in.ID)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return "", err
		}
		if _, err := store.CreateMemberTx(tx, userID, in.ID, models.RoleMember); err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindWorkspaceJoined, userID, in.ID, fmt.Sprintf("Joined workspace: %s", w.Name)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return in.ID, nil
	})

	mutate(l, api.NewJoinCode, func(tx *sql.Tx, userID string, in api.IDArgs) (string, error) {
		if _, err := adminOf(tx, in.ID, userID); err != nil {
			return "", err
		}
		if _, err := store.UpdateJoinCodeTx(tx, in.ID); err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindJoinCodeRotated, userID, in.ID, "Join code regenerated"); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return in.ID, nil
	})
}
