package models

import "time"

// ID Strategy:
// - Events use int64 (monotonic ordering, auto-increment)
// - Everything else uses prefixed strings, e.g. "wks_1234567890_a3f9c2e81b0d"

// Role is a member's role inside a workspace.
type Role string

// Role constants.
const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User is a person who can belong to workspaces.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Workspace is a team's top-level container.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id"`
	JoinCode  string    `json:"join_code"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkspaceInfo is the public view of a workspace shown before joining.
type WorkspaceInfo struct {
	Name     string `json:"name"`
	IsMember bool   `json:"is_member"`
}

// Member links a user to a workspace with a role.
type Member struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	WorkspaceID string    `json:"workspace_id"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsAdmin reports whether the member administers the workspace.
func (m *Member) IsAdmin() bool {
	return m != nil && m.Role == RoleAdmin
}

// MemberWithUser is a member joined with its user profile.
type MemberWithUser struct {
	Member
	User User `json:"user"`
}

// Channel is a named conversation inside a workspace.
type Channel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	WorkspaceID string    `json:"workspace_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Conversation is a direct-message thread between two members.
type Conversation struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	MemberOneID string    `json:"member_one_id"`
	MemberTwoID string    `json:"member_two_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Message is a post in a channel, conversation or thread.
type Message struct {
	ID              string     `json:"id"`
	Body            string     `json:"body"`
	Image           string     `json:"image,omitempty"`
	MemberID        string     `json:"member_id"`
	WorkspaceID     string     `json:"workspace_id"`
	ChannelID       string     `json:"channel_id,omitempty"`
	ConversationID  string     `json:"conversation_id,omitempty"`
	ParentMessageID string     `json:"parent_message_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// IsEdited reports whether the message body was changed after posting.
func (m *Message) IsEdited() bool {
	return m.UpdatedAt != nil
}

// Reaction is one member's emoji on one message.
type Reaction struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	MessageID   string    `json:"message_id"`
	MemberID    string    `json:"member_id"`
	Value       string    `json:"value"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReactionGroup aggregates reactions with the same value on a message.
type ReactionGroup struct {
	Value     string   `json:"value"`
	Count     int      `json:"count"`
	MemberIDs []string `json:"member_ids"`
}

// ThreadSummary describes replies to a message.
type ThreadSummary struct {
	Count     int        `json:"count"`
	Image     string     `json:"image,omitempty"`
	Name      string     `json:"name,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// MessageView is a message enriched for display.
type MessageView struct {
	Message
	Member    Member          `json:"member"`
	User      User            `json:"user"`
	Reactions []ReactionGroup `json:"reactions"`
	Thread    ThreadSummary   `json:"thread"`
}

// MessagePage is one page of messages, newest first.
type MessagePage struct {
	Messages   []*MessageView `json:"messages"`
	NextCursor int64          `json:"next_cursor,omitempty"`
	IsDone     bool           `json:"is_done"`
}

// Event is an entry in the activity log.
type Event struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	Actor       string    `json:"actor"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}
