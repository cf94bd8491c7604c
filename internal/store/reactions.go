package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dotcommander/huddle/internal/models"
)

// ToggleReactionTx adds memberID's value reaction to a message, or removes it
// when it already exists. It returns the created reaction, or nil on removal.
func ToggleReactionTx(tx *sql.Tx, workspaceID, messageID, memberID, value string) (*models.Reaction, error) {
	var existingID string
	err := tx.QueryRow(`
		SELECT id FROM reactions
		WHERE message_id = ? AND member_id = ? AND value = ?
	`, messageID, memberID, value).Scan(&existingID)
	switch {
	case err == nil:
		if _, err := tx.Exec(`DELETE FROM reactions WHERE id = ?`, existingID); err != nil {
			return nil, fmt.Errorf("failed to delete reaction: %w", err)
		}
		return nil, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("failed to query reaction: %w", err)
	}

	r := &models.Reaction{
		ID:          generatePrefixedID("rct"),
		WorkspaceID: workspaceID,
		MessageID:   messageID,
		MemberID:    memberID,
		Value:       value,
		CreatedAt:   now(),
	}
	if _, err := tx.Exec(`
		INSERT INTO reactions (id, workspace_id, message_id, member_id, value, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.WorkspaceID, r.MessageID, r.MemberID, r.Value, r.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert reaction: %w", err)
	}
	return r, nil
}

// ReactionGroups returns grouped reactions for each message ID, in order of
// first use.
func ReactionGroups(q Querier, messageIDs []string) (map[string][]models.ReactionGroup, error) {
	out := make(map[string][]models.ReactionGroup, len(messageIDs))
	if len(messageIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(messageIDs))
	for i, id := range messageIDs {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(messageIDs)), ",")

	rows, err := q.Query(`
		SELECT message_id, value, member_id FROM reactions
		WHERE message_id IN (`+placeholders+`)
		ORDER BY rowid
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	index := make(map[string]map[string]int)
	for rows.Next() {
		var messageID, value, memberID string
		if err := rows.Scan(&messageID, &value, &memberID); err != nil {
			return nil, fmt.Errorf("failed to scan reaction row: %w", err)
		}
		if index[messageID] == nil {
			index[messageID] = make(map[string]int)
		}
		i, ok := index[messageID][value]
		if !ok {
			out[messageID] = append(out[messageID], models.ReactionGroup{Value: value})
			i = len(out[messageID]) - 1
			index[messageID][value] = i
		}
		g := &out[messageID][i]
		g.Count++
		g.MemberIDs = append(g.MemberIDs, memberID)
	}
	return out, rows.Err()
}
