package api

import "github.com/dotcommander/huddle/internal/models"

// NoArgs is the input of endpoints that take no arguments.
type NoArgs struct{}

// IDArgs addresses a single record.
type IDArgs struct {
	ID string `json:"id"`
}

// WorkspaceArgs scopes a read to one workspace.
type WorkspaceArgs struct {
	WorkspaceID string `json:"workspace_id"`
}

type CreateUserArgs struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

type CreateWorkspaceArgs struct {
	Name string `json:"name"`
}

type UpdateWorkspaceArgs struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type JoinWorkspaceArgs struct {
	ID       string `json:"id"`
	JoinCode string `json:"join_code"`
}

type CreateChannelArgs struct {
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
}

type UpdateChannelArgs struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UpdateMemberArgs struct {
	ID   string      `json:"id"`
	Role models.Role `json:"role"`
}

type CreateOrGetConversationArgs struct {
	WorkspaceID string `json:"workspace_id"`
	MemberID    string `json:"member_id"`
}

// CreateMessageArgs posts to a channel, a conversation or, with
// ParentMessageID, a thread.
type CreateMessageArgs struct {
	Body            string `json:"body"`
	Image           string `json:"image,omitempty"`
	WorkspaceID     string `json:"workspace_id"`
	ChannelID       string `json:"channel_id,omitempty"`
	ConversationID  string `json:"conversation_id,omitempty"`
	ParentMessageID string `json:"parent_message_id,omitempty"`
}

// ListMessagesArgs selects one stream. Cursor is the NextCursor of the
// previous page.
type ListMessagesArgs struct {
	ChannelID       string `json:"channel_id,omitempty"`
	ConversationID  string `json:"conversation_id,omitempty"`
	ParentMessageID string `json:"parent_message_id,omitempty"`
	Limit           int    `json:"limit,omitempty"`
	Cursor          int64  `json:"cursor,omitempty"`
}

type UpdateMessageArgs struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

type ToggleReactionArgs struct {
	MessageID string `json:"message_id"`
	Value     string `json:"value"`
}

// Users.
var (
	CreateUser  = MutationRef[CreateUserArgs, string]{Name: "users.create"}
	CurrentUser = QueryRef[NoArgs, *models.User]{Name: "users.current"}
)

// Workspaces.
var (
	CreateWorkspace  = MutationRef[CreateWorkspaceArgs, string]{Name: "workspaces.create"}
	GetWorkspace     = QueryRef[IDArgs, *models.Workspace]{Name: "workspaces.get"}
	ListWorkspaces   = QueryRef[NoArgs, []*models.Workspace]{Name: "workspaces.list"}
	GetWorkspaceInfo = QueryRef[IDArgs, *models.WorkspaceInfo]{Name: "workspaces.getInfo"}
	UpdateWorkspace  = MutationRef[UpdateWorkspaceArgs, string]{Name: "workspaces.update"}
	RemoveWorkspace  = MutationRef[IDArgs, string]{Name: "workspaces.remove"}
	JoinWorkspace    = MutationRef[JoinWorkspaceArgs, string]{Name: "workspaces.join"}
	NewJoinCode      = MutationRef[IDArgs, string]{Name: "workspaces.newJoinCode"}
)

// Channels.
var (
	CreateChannel = MutationRef[CreateChannelArgs, string]{Name: "channels.create"}
	GetChannel    = QueryRef[IDArgs, *models.Channel]{Name: "channels.get"}
	ListChannels  = QueryRef[WorkspaceArgs, []*models.Channel]{Name: "channels.list"}
	UpdateChannel = MutationRef[UpdateChannelArgs, string]{Name: "channels.update"}
	RemoveChannel = MutationRef[IDArgs, string]{Name: "channels.remove"}
)

// Members.
var (
	CurrentMember = QueryRef[WorkspaceArgs, *models.Member]{Name: "members.current"}
	GetMember     = QueryRef[IDArgs, *models.MemberWithUser]{Name: "members.get"}
	ListMembers   = QueryRef[WorkspaceArgs, []*models.MemberWithUser]{Name: "members.list"}
	UpdateMember  = MutationRef[UpdateMemberArgs, string]{Name: "members.update"}
	RemoveMember  = MutationRef[IDArgs, string]{Name: "members.remove"}
)

// Conversations.
var CreateOrGetConversation = MutationRef[CreateOrGetConversationArgs, string]{Name: "conversations.createOrGet"}

// Messages and reactions.
var (
	CreateMessage  = MutationRef[CreateMessageArgs, string]{Name: "messages.create"}
	GetMessage     = QueryRef[IDArgs, *models.MessageView]{Name: "messages.get"}
	ListMessages   = QueryRef[ListMessagesArgs, *models.MessagePage]{Name: "messages.list"}
	UpdateMessage  = MutationRef[UpdateMessageArgs, string]{Name: "messages.update"}
	RemoveMessage  = MutationRef[IDArgs, string]{Name: "messages.remove"}
	ToggleReaction = MutationRef[ToggleReactionArgs, string]{Name: "reactions.toggle"}
)
