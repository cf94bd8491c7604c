package models

// Event kinds appended by the backend for every successful mutation.
const (
	EventKindUserCreated        = "user_created"
	EventKindWorkspaceCreated   = "workspace_created"
	EventKindWorkspaceUpdated   = "workspace_updated"
	EventKindWorkspaceRemoved   = "workspace_removed"
	EventKindWorkspaceJoined    = "workspace_joined"
	EventKindJoinCodeRotated    = "join_code_rotated"
	EventKindChannelCreated     = "channel_created"
	EventKindChannelUpdated     = "channel_updated"
	EventKindChannelRemoved     = "channel_removed"
	EventKindMemberRoleChanged  = "member_role_changed"
	EventKindMemberRemoved      = "member_removed"
	EventKindConversationOpened = "conversation_opened"
	EventKindMessageCreated     = "message_created"
	EventKindMessageUpdated     = "message_updated"
	EventKindMessageRemoved     = "message_removed"
	EventKindReactionToggled    = "reaction_toggled"
)
