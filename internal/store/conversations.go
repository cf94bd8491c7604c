package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dotcommander/huddle/internal/models"
)

// FindConversationTx returns the direct conversation between two members in
// either order, or nil when none exists.
func FindConversationTx(tx *sql.Tx, workspaceID, memberA, memberB string) (*models.Conversation, error) {
	c, err := scanConversation(tx.QueryRow(`
		SELECT `+conversationColumns+` FROM conversations
		WHERE workspace_id = ?
		  AND ((member_one_id = ? AND member_two_id = ?)
		    OR (member_one_id = ? AND member_two_id = ?))
		LIMIT 1
	`, workspaceID, memberA, memberB, memberB, memberA))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	return c, nil
}

// CreateConversationTx opens a direct conversation between two members.
func CreateConversationTx(tx *sql.Tx, workspaceID, memberOne, memberTwo string) (*models.Conversation, error) {
	c := &models.Conversation{
		ID:          generatePrefixedID("cnv"),
		WorkspaceID: workspaceID,
		MemberOneID: memberOne,
		MemberTwoID: memberTwo,
		CreatedAt:   now(),
	}
	if _, err := tx.Exec(`
		INSERT INTO conversations (id, workspace_id, member_one_id, member_two_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.WorkspaceID, c.MemberOneID, c.MemberTwoID, c.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert conversation: %w", err)
	}
	return c, nil
}

// GetConversation retrieves a conversation by ID.
func GetConversation(q Querier, conversationID string) (*models.Conversation, error) {
	c, err := scanConversation(q.QueryRow(`SELECT `+conversationColumns+` FROM conversations WHERE id = ?`, conversationID))
	if err != nil {
		return nil, notFoundOr(err, "conversation", conversationID)
	}
	return c, nil
}
