package features

import (
	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/models"
	"github.com/dotcommander/huddle/internal/mutation"
)

func (c *Client) CreateUser() *mutation.Action[api.CreateUserArgs, string] {
	return newMutation(c, api.CreateUser, userReads)
}

func (c *Client) CurrentUser() *mutation.Query[api.NoArgs, *models.User] {
	return newQuery(c, api.CurrentUser)
}

func (c *Client) CreateWorkspace() *mutation.Action[api.CreateWorkspaceArgs, string] {
	return newMutation(c, api.CreateWorkspace, workspaceReads, channelReads, memberReads)
}

func (c *Client) GetWorkspace() *mutation.Query[api.IDArgs, *models.Workspace] {
	return newQuery(c, api.GetWorkspace)
}

func (c *Client) GetWorkspaces() *mutation.Query[api.NoArgs, []*models.Workspace] {
	return newQuery(c, api.ListWorkspaces)
}

func (c *Client) GetWorkspaceInfo() *mutation.Query[api.IDArgs, *models.WorkspaceInfo] {
	return newQuery(c, api.GetWorkspaceInfo)
}

func (c *Client) UpdateWorkspace() *mutation.Action[api.UpdateWorkspaceArgs, string] {
	return newMutation(c, api.UpdateWorkspace, workspaceReads)
}

func (c *Client) RemoveWorkspace() *mutation.Action[api.IDArgs, string] {
	return newMutation(c, api.RemoveWorkspace, workspaceReads, channelReads, memberReads, messageReads)
}

func (c *Client) JoinWorkspace() *mutation.Action[api.JoinWorkspaceArgs, string] {
	return newMutation(c, api.JoinWorkspace, workspaceReads, memberReads)
}

func (c *Client) NewJoinCode() *mutation.Action[api.IDArgs, string] {
	return newMutation(c, api.NewJoinCode, workspaceReads)
}

func (c *Client) CreateChannel() *mutation.Action[api.CreateChannelArgs, string] {
	return newMutation(c, api.CreateChannel, channelReads)
}

func (c *Client) GetChannel() *mutation.Query[api.IDArgs, *models.Channel] {
	return newQuery(c, api.GetChannel)
}

func (c *Client) GetChannels() *mutation.Query[api.WorkspaceArgs, []*models.Channel] {
	return newQuery(c, api.ListChannels)
}

func (c *Client) UpdateChannel() *mutation.Action[api.UpdateChannelArgs, string] {
	return newMutation(c, api.UpdateChannel, channelReads)
}

func (c *Client) RemoveChannel() *mutation.Action[api.IDArgs, string] {
	return newMutation(c, api.RemoveChannel, channelReads, messageReads)
}

func (c *Client) CurrentMember() *mutation.Query[api.WorkspaceArgs, *models.Member] {
	return newQuery(c, api.CurrentMember)
}

func (c *Client) GetMember() *mutation.Query[api.IDArgs, *models.MemberWithUser] {
	return newQuery(c, api.GetMember)
}

func (c *Client) GetMembers() *mutation.Query[api.WorkspaceArgs, []*models.MemberWithUser] {
	return newQuery(c, api.ListMembers)
}

func (c *Client) UpdateMember() *mutation.Action[api.UpdateMemberArgs, string] {
	return newMutation(c, api.UpdateMember, memberReads)
}

func (c *Client) RemoveMember() *mutation.Action[api.IDArgs, string] {
	return newMutation(c, api.RemoveMember, workspaceReads, memberReads, messageReads)
}

func (c *Client) CreateOrGetConversation() *mutation.Action[api.CreateOrGetConversationArgs, string] {
	return newMutation(c, api.CreateOrGetConversation)
}

func (c *Client) CreateMessage() *mutation.Action[api.CreateMessageArgs, string] {
	return newMutation(c, api.CreateMessage, messageReads)
}

func (c *Client) GetMessage() *mutation.Query[api.IDArgs, *models.MessageView] {
	return newQuery(c, api.GetMessage)
}

func (c *Client) GetMessages() *mutation.Query[api.ListMessagesArgs, *models.MessagePage] {
	return newQuery(c, api.ListMessages)
}

func (c *Client) UpdateMessage() *mutation.Action[api.UpdateMessageArgs, string] {
	return newMutation(c, api.UpdateMessage, messageReads)
}

func (c *Client) RemoveMessage() *mutation.Action[api.IDArgs, string] {
	return newMutation(c, api.RemoveMessage, messageReads)
}

func (c *Client) ToggleReaction() *mutation.Action[api.ToggleReactionArgs, string] {
	return newMutation(c, api.ToggleReaction, messageReads)
}
