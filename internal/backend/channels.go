package backend

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/models"
	"github.com/dotcommander/huddle/internal/store"
)

func (l *Local) registerChannels() {
	mutate(l, api.CreateChannel, func(tx *sql.Tx, userID string, in api.CreateChannelArgs) (string, error) {
		name, err := NormalizeChannelName(in.Name)
		if err != nil {
			return "", err
		}
		if _, err := adminOf(tx, in.WorkspaceID, userID); err != nil {
			return "", err
		}
		c, err := store.CreateChannelTx(tx, in.WorkspaceID, name)
		if err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindChannelCreated, userID, in.WorkspaceID, fmt.Sprintf("Channel created: #%s", c.Name)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return c.ID, nil
	})

	query(l, api.GetChannel, func(ctx context.Context, in api.IDArgs) (*models.Channel, error) {
		c, err := store.GetChannel(l.db, in.ID)
		if err != nil {
			return nil, err
		}
		if _, err := memberFromContext(ctx, l.db, c.WorkspaceID); err != nil {
			return nil, err
		}
		return c, nil
	})

	query(l, api.ListChannels, func(ctx context.Context, in api.WorkspaceArgs) ([]*models.Channel, error) {
		if _, err := memberFromContext(ctx, l.db, in.WorkspaceID); err != nil {
			return nil, err
		}
		return store.ListChannels(l.db, in.WorkspaceID)
	})

	mutate(l, api.UpdateChannel, func(tx *sql.Tx, userID string, in api.UpdateChannelArgs) (string, error) {
		name, err := NormalizeChannelName(in.Name)
		if err != nil {
			return "", err
		}
		c, err := store.GetChannel(tx, in.ID)
		if err != nil {
			return "", err
		}
		if _, err := adminOf(tx, c.WorkspaceID, userID); err != nil {
			return "", err
		}
		if err := store.UpdateChannelNameTx(tx, in.ID, name); err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindChannelUpdated, userID, c.WorkspaceID, fmt.Sprintf("Channel renamed: #%s -> #%s", c.Name, name)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return in.ID, nil
	})

	mutate(l, api.RemoveChannel, func(tx *sql.Tx, userID string, in api.IDArgs) (string, error) {
		c, err := store.GetChannel(tx, in.ID)
		if err != nil {
			return "", err
		}
		if _, err := adminOf(tx, c.WorkspaceID, userID); err != nil {
			return "", err
		}
		if err := store.DeleteChannelTx(tx, in.ID); err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindChannelRemoved, userID, c.WorkspaceID, fmt.Sprintf("Channel removed: #%s", c.Name)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return in.ID, nil
	})
}
