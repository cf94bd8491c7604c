package store

import (
	"database/sql"
	"fmt"

	"github.com/dotcommander/huddle/internal/models"
)

// CreateChannelTx inserts a channel.
func CreateChannelTx(tx *sql.Tx, workspaceID, name string) (*models.Channel, error) {
	c := &models.Channel{
		ID:          generatePrefixedID("chn"),
		Name:        name,
		WorkspaceID: workspaceID,
		CreatedAt:   now(),
	}
	if _, err := tx.Exec(`
		INSERT INTO channels (id, name, workspace_id, created_at)
		VALUES (?, ?, ?, ?)
	`, c.ID, c.Name, c.WorkspaceID, c.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert channel: %w", err)
	}
	return c, nil
}

// GetChannel retrieves a channel by ID.
func GetChannel(q Querier, channelID string) (*models.Channel, error) {
	c, err := scanChannel(q.QueryRow(`SELECT `+channelColumns+` FROM channels WHERE id = ?`, channelID))
	if err != nil {
		return nil, notFoundOr(err, "channel", channelID)
	}
	return c, nil
}

// ListChannels returns the channels of a workspace in creation order.
func ListChannels(db *sql.DB, workspaceID string) ([]*models.Channel, error) {
	var channels []*models.Channel

	err := RetryWithBackoff(func() error {
		rows, err := db.Query(`
			SELECT `+channelColumns+` FROM channels
			WHERE workspace_id = ?
			ORDER BY rowid
		`, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to query channels: %w", err)
		}
		defer rows.Close()

		channels = make([]*models.Channel, 0)
		for rows.Next() {
			c, err := scanChannel(rows)
			if err != nil {
				return fmt.Errorf("failed to scan channel row: %w", err)
			}
			channels = append(channels, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return channels, nil
}

// UpdateChannelNameTx renames a channel.
func UpdateChannelNameTx(tx *sql.Tx, channelID, name string) error {
	res, err := tx.Exec(`UPDATE channels SET name = ? WHERE id = ?`, name, channelID)
	if err != nil {
		return fmt.Errorf("failed to update channel: %w", err)
	}
	return mustAffect(res, "channel", channelID)
}

// DeleteChannelTx removes a channel and, by cascade, its messages.
func DeleteChannelTx(tx *sql.Tx, channelID string) error {
	res, err := tx.Exec(`DELETE FROM channels WHERE id = ?`, channelID)
	if err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}
	return mustAffect(res, "channel", channelID)
}
