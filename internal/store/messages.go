package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dotcommander/huddle/internal/models"
)

// Message list limits.
const (
	DefaultMessagePageSize = 50
	MaxMessagePageSize     = 200
)

// CreateMessageTx inserts m, assigning its ID and CreatedAt.
func CreateMessageTx(tx *sql.Tx, m *models.Message) (*models.Message, error) {
	out := *m
	out.ID = generatePrefixedID("msg")
	out.CreatedAt = now()
	out.UpdatedAt = nil
	if _, err := tx.Exec(`
		INSERT INTO messages (id, body, image, member_id, workspace_id, channel_id, conversation_id, parent_message_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, out.ID, out.Body, nullable(out.Image), out.MemberID, out.WorkspaceID,
		nullable(out.ChannelID), nullable(out.ConversationID), nullable(out.ParentMessageID), out.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return &out, nil
}

// GetMessage retrieves a message by ID.
func GetMessage(q Querier, messageID string) (*models.Message, error) {
	m, err := scanMessage(q.QueryRow(`SELECT `+messageColumns+` FROM messages WHERE id = ?`, messageID))
	if err != nil {
		return nil, notFoundOr(err, "message", messageID)
	}
	return m, nil
}

// UpdateMessageBodyTx replaces a message body and stamps updated_at.
func UpdateMessageBodyTx(tx *sql.Tx, messageID, body string) error {
	res, err := tx.Exec(`UPDATE messages SET body = ?, updated_at = ? WHERE id = ?`, body, now(), messageID)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	return mustAffect(res, "message", messageID)
}

// DeleteMessageTx removes a message with its replies and reactions.
func DeleteMessageTx(tx *sql.Tx, messageID string) error {
	res, err := tx.Exec(`DELETE FROM messages WHERE id = ?`, messageID)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return mustAffect(res, "message", messageID)
}

// MessageFilter selects one message stream. Exactly one of ChannelID,
// ConversationID or ParentMessageID must be set; channel and conversation
// streams exclude thread replies.
type MessageFilter struct {
	ChannelID       string
	ConversationID  string
	ParentMessageID string
	// Cursor is the exclusive upper bound returned as NextCursor by the
	// previous page; zero starts from the newest message.
	Cursor int64
	Limit  int
}

// MessageRows is one page of raw messages, newest first.
type MessageRows struct {
	Messages   []*models.Message
	NextCursor int64
	IsDone     bool
}

// ListMessages pages through a message stream newest first.
func ListMessages(db *sql.DB, f MessageFilter) (*MessageRows, error) {
	var where string
	var arg string
	set := 0
	if f.ChannelID != "" {
		where, arg = "channel_id = ? AND parent_message_id IS NULL", f.ChannelID
		set++
	}
	if f.ConversationID != "" {
		where, arg = "conversation_id = ? AND parent_message_id IS NULL", f.ConversationID
		set++
	}
	if f.ParentMessageID != "" {
		where, arg = "parent_message_id = ?", f.ParentMessageID
		set++
	}
	if set != 1 {
		return nil, errors.New("exactly one of channel, conversation or parent message is required")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultMessagePageSize
	}
	if limit > MaxMessagePageSize {
		limit = MaxMessagePageSize
	}

	var page *MessageRows
	err := RetryWithBackoff(func() error {
		rows, err := db.Query(`
			SELECT rowid, `+messageColumns+` FROM messages
			WHERE `+where+` AND (? = 0 OR rowid < ?)
			ORDER BY rowid DESC
			LIMIT ?
		`, arg, f.Cursor, f.Cursor, limit+1)
		if err != nil {
			return fmt.Errorf("failed to query messages: %w", err)
		}
		defer rows.Close()

		page = &MessageRows{Messages: make([]*models.Message, 0, limit)}
		var rowIDs []int64
		for rows.Next() {
			var rowID int64
			s := &messageRowScanner{}
			if err := rows.Scan(&rowID,
				&s.msg.ID, &s.msg.Body, &s.image, &s.msg.MemberID, &s.msg.WorkspaceID,
				&s.channelID, &s.conversationID, &s.parentID, &s.msg.CreatedAt, &s.updatedAt,
			); err != nil {
				return fmt.Errorf("failed to scan message row: %w", err)
			}
			page.Messages = append(page.Messages, s.hydrate())
			rowIDs = append(rowIDs, rowID)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		if len(page.Messages) > limit {
			page.Messages = page.Messages[:limit]
			page.NextCursor = rowIDs[limit-1]
		} else {
			page.IsDone = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// ThreadSummaries aggregates replies for each parent message ID.
func ThreadSummaries(q Querier, parentIDs []string) (map[string]models.ThreadSummary, error) {
	out := make(map[string]models.ThreadSummary, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(parentIDs))
	for i, id := range parentIDs {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(parentIDs)), ",")

	// The latest reply per parent supplies the thread bar's author and time.
	rows, err := q.Query(`
		SELECT r.parent_message_id, r.cnt, m.created_at, u.name, u.image
		FROM (
			SELECT parent_message_id, COUNT(*) AS cnt, MAX(rowid) AS last_rowid
			FROM messages
			WHERE parent_message_id IN (`+placeholders+`)
			GROUP BY parent_message_id
		) r
		JOIN messages m ON m.rowid = r.last_rowid
		JOIN members mb ON mb.id = m.member_id
		JOIN users u ON u.id = mb.user_id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query threads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var parentID, name string
		var count int
		var image sql.NullString
		var last sql.NullTime
		if err := rows.Scan(&parentID, &count, &last, &name, &image); err != nil {
			return nil, fmt.Errorf("failed to scan thread row: %w", err)
		}
		out[parentID] = models.ThreadSummary{
			Count:     count,
			Name:      name,
			Image:     scanNullString(image),
			Timestamp: scanNullTime(last),
		}
	}
	return out, rows.Err()
}
