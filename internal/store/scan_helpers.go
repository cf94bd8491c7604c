package store

import (
	"database/sql"
	"time"

	"github.com/dotcommander/huddle/internal/models"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// now is the timestamp written to created_at/updated_at columns.
func now() time.Time {
	return time.Now().UTC()
}

// scanNullString converts sql.NullString to string (empty if NULL)
func scanNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// scanNullTime converts sql.NullTime to *time.Time (nil if NULL)
func scanNullTime(nt sql.NullTime) *time.Time {
	if nt.Valid {
		return &nt.Time
	}
	return nil
}

// nullable maps "" to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

const userColumns = `id, name, email, image, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var image sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &image, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Image = scanNullString(image)
	return &u, nil
}

const workspaceColumns = `id, name, user_id, join_code, created_at`

func scanWorkspace(row rowScanner) (*models.Workspace, error) {
	var w models.Workspace
	if err := row.Scan(&w.ID, &w.Name, &w.UserID, &w.JoinCode, &w.CreatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

const memberColumns = `id, user_id, workspace_id, role, created_at`

func scanMember(row rowScanner) (*models.Member, error) {
	var m models.Member
	var role string
	if err := row.Scan(&m.ID, &m.UserID, &m.WorkspaceID, &role, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Role = models.Role(role)
	return &m, nil
}

const channelColumns = `id, name, workspace_id, created_at`

func scanChannel(row rowScanner) (*models.Channel, error) {
	var c models.Channel
	if err := row.Scan(&c.ID, &c.Name, &c.WorkspaceID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

const conversationColumns = `id, workspace_id, member_one_id, member_two_id, created_at`

func scanConversation(row rowScanner) (*models.Conversation, error) {
	var c models.Conversation
	if err := row.Scan(&c.ID, &c.WorkspaceID, &c.MemberOneID, &c.MemberTwoID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

const messageColumns = `id, body, image, member_id, workspace_id, channel_id, conversation_id, parent_message_id, created_at, updated_at`

// messageRowScanner encapsulates the nullable message columns.
type messageRowScanner struct {
	msg            models.Message
	image          sql.NullString
	channelID      sql.NullString
	conversationID sql.NullString
	parentID       sql.NullString
	updatedAt      sql.NullTime
}

func (s *messageRowScanner) scan(row rowScanner) error {
	return row.Scan(
		&s.msg.ID,
		&s.msg.Body,
		&s.image,
		&s.msg.MemberID,
		&s.msg.WorkspaceID,
		&s.channelID,
		&s.conversationID,
		&s.parentID,
		&s.msg.CreatedAt,
		&s.updatedAt,
	)
}

func (s *messageRowScanner) hydrate() *models.Message {
	s.msg.Image = scanNullString(s.image)
	s.msg.ChannelID = scanNullString(s.channelID)
	s.msg.ConversationID = scanNullString(s.conversationID)
	s.msg.ParentMessageID = scanNullString(s.parentID)
	s.msg.UpdatedAt = scanNullTime(s.updatedAt)
	return &s.msg
}

func scanMessage(row rowScanner) (*models.Message, error) {
	scanner := &messageRowScanner{}
	if err := scanner.scan(row); err != nil {
		return nil, err
	}
	return scanner.hydrate(), nil
}
