package backend

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/models"
	"github.com/dotcommander/huddle/internal/store"
)

func TestMessages_PostListAndPaginate(t *testing.T) {
	l, _ := newTestBackend(t)
	tm := newTeam(t, l)

	for i := range 3 {
		_, err := doMutation(t, l, tm.adaCtx, api.CreateMessage, api.CreateMessageArgs{
			Body: fmt.Sprintf("hello %d", i), WorkspaceID: tm.workspaceID, ChannelID: tm.general.ID,
		})
		require.NoError(t, err)
	}

	page, err := doQuery(t, l, tm.graceCtx, api.ListMessages, api.ListMessagesArgs{ChannelID: tm.general.ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "hello 2", page.Messages[0].Body)
	assert.Equal(t, "Ada", page.Messages[0].User.Name)
	assert.Equal(t, tm.adaMember.ID, page.Messages[0].Member.ID)
	assert.NotNil(t, page.Messages[0].Reactions)
	assert.False(t, page.IsDone)

	page, err = doQuery(t, l, tm.graceCtx, api.ListMessages, api.ListMessagesArgs{ChannelID: tm.general.ID, Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.True(t, page.IsDone)
}

func TestMessages_Validation(t *testing.T) {
	l, _ := newTestBackend(t)
	tm := newTeam(t, l)
	_, outsiderCtx := signUp(t, l, "Linus", "linus@example.com")

	_, err := doMutation(t, l, tm.adaCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "   ", WorkspaceID: tm.workspaceID, ChannelID: tm.general.ID,
	})
	assert.True(t, api.IsCode(err, api.CodeInvalidArgument))

	_, err = doMutation(t, l, tm.adaCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "nowhere", WorkspaceID: tm.workspaceID,
	})
	assert.True(t, api.IsCode(err, api.CodeInvalidArgument))

	_, err = doMutation(t, l, outsiderCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "hi", WorkspaceID: tm.workspaceID, ChannelID: tm.general.ID,
	})
	assert.True(t, api.IsCode(err, api.CodeForbidden))

	_, err = doQuery(t, l, outsiderCtx, api.ListMessages, api.ListMessagesArgs{ChannelID: tm.general.ID})
	assert.True(t, api.IsCode(err, api.CodeForbidden))

	_, err = doQuery(t, l, tm.adaCtx, api.ListMessages, api.ListMessagesArgs{})
	assert.True(t, api.IsCode(err, api.CodeInvalidArgument))
}

func TestMessages_ReplyInheritsConversation(t *testing.T) {
	l, _ := newTestBackend(t)
	tm := newTeam(t, l)

	conversationID, err := doMutation(t, l, tm.adaCtx, api.CreateOrGetConversation, api.CreateOrGetConversationArgs{
		WorkspaceID: tm.workspaceID, MemberID: tm.graceMember.ID,
	})
	require.NoError(t, err)

	parentID, err := doMutation(t, l, tm.adaCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "lunch?", WorkspaceID: tm.workspaceID, ConversationID: conversationID,
	})
	require.NoError(t, err)

	replyID, err := doMutation(t, l, tm.graceCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "yes", WorkspaceID: tm.workspaceID, ParentMessageID: parentID,
	})
	require.NoError(t, err)

	reply, err := doQuery(t, l, tm.adaCtx, api.GetMessage, api.IDArgs{ID: replyID})
	require.NoError(t, err)
	assert.Equal(t, conversationID, reply.ConversationID)
	assert.Equal(t, parentID, reply.ParentMessageID)

	_, err = doMutation(t, l, tm.graceCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "wrong place", WorkspaceID: tm.workspaceID, ChannelID: tm.general.ID, ParentMessageID: parentID,
	})
	assert.True(t, api.IsCode(err, api.CodeInvalidArgument))

	parent, err := doQuery(t, l, tm.adaCtx, api.GetMessage, api.IDArgs{ID: parentID})
	require.NoError(t, err)
	assert.Equal(t, 1, parent.Thread.Count)
	assert.Equal(t, "Grace", parent.Thread.Name)

	thread, err := doQuery(t, l, tm.adaCtx, api.ListMessages, api.ListMessagesArgs{ParentMessageID: parentID})
	require.NoError(t, err)
	require.Len(t, thread.Messages, 1)

	stream, err := doQuery(t, l, tm.adaCtx, api.ListMessages, api.ListMessagesArgs{ConversationID: conversationID})
	require.NoError(t, err)
	require.Len(t, stream.Messages, 1, "replies stay out of the main stream")
}

func TestMessages_ConversationsArePrivate(t *testing.T) {
	l, _ := newTestBackend(t)
	tm := newTeam(t, l)

	w, err := doQuery(t, l, tm.adaCtx, api.GetWorkspace, api.IDArgs{ID: tm.workspaceID})
	require.NoError(t, err)
	_, eveCtx := signUp(t, l, "Eve", "eve@example.com")
	_, err = doMutation(t, l, eveCtx, api.JoinWorkspace, api.JoinWorkspaceArgs{ID: tm.workspaceID, JoinCode: w.JoinCode})
	require.NoError(t, err)

	conversationID, err := doMutation(t, l, tm.adaCtx, api.CreateOrGetConversation, api.CreateOrGetConversationArgs{
		WorkspaceID: tm.workspaceID, MemberID: tm.graceMember.ID,
	})
	require.NoError(t, err)
	secretID, err := doMutation(t, l, tm.adaCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "private", WorkspaceID: tm.workspaceID, ConversationID: conversationID,
	})
	require.NoError(t, err)

	forbidden := func(err error) {
		t.Helper()
		assert.True(t, api.IsCode(err, api.CodeForbidden), "got %v", err)
	}

	_, err = doQuery(t, l, eveCtx, api.ListMessages, api.ListMessagesArgs{ConversationID: conversationID})
	forbidden(err)
	_, err = doQuery(t, l, eveCtx, api.ListMessages, api.ListMessagesArgs{ParentMessageID: secretID})
	forbidden(err)
	_, err = doQuery(t, l, eveCtx, api.GetMessage, api.IDArgs{ID: secretID})
	forbidden(err)
	_, err = doMutation(t, l, eveCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "hi", WorkspaceID: tm.workspaceID, ConversationID: conversationID,
	})
	forbidden(err)
	_, err = doMutation(t, l, eveCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "hi", WorkspaceID: tm.workspaceID, ParentMessageID: secretID,
	})
	forbidden(err)
	_, err = doMutation(t, l, eveCtx, api.ToggleReaction, api.ToggleReactionArgs{MessageID: secretID, Value: "👀"})
	forbidden(err)

	page, err := doQuery(t, l, tm.graceCtx, api.ListMessages, api.ListMessagesArgs{ConversationID: conversationID})
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "private", page.Messages[0].Body)
}

func TestMessages_RepliesCannotNest(t *testing.T) {
	l, _ := newTestBackend(t)
	tm := newTeam(t, l)

	parentID, err := doMutation(t, l, tm.adaCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "release notes?", WorkspaceID: tm.workspaceID, ChannelID: tm.general.ID,
	})
	require.NoError(t, err)
	replyID, err := doMutation(t, l, tm.graceCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "drafting", WorkspaceID: tm.workspaceID, ParentMessageID: parentID,
	})
	require.NoError(t, err)

	_, err = doMutation(t, l, tm.adaCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "thanks", WorkspaceID: tm.workspaceID, ParentMessageID: replyID,
	})
	assert.True(t, api.IsCode(err, api.CodeInvalidArgument), "got %v", err)
}

func TestMessages_OnlyAuthorEditsAndRemoves(t *testing.T) {
	l, db := newTestBackend(t)
	tm := newTeam(t, l)

	id, err := doMutation(t, l, tm.adaCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "draft", WorkspaceID: tm.workspaceID, ChannelID: tm.general.ID,
	})
	require.NoError(t, err)

	_, err = doMutation(t, l, tm.graceCtx, api.UpdateMessage, api.UpdateMessageArgs{ID: id, Body: "mine now"})
	assert.True(t, api.IsCode(err, api.CodeForbidden))
	_, err = doMutation(t, l, tm.graceCtx, api.RemoveMessage, api.IDArgs{ID: id})
	assert.True(t, api.IsCode(err, api.CodeForbidden))

	_, err = doMutation(t, l, tm.adaCtx, api.UpdateMessage, api.UpdateMessageArgs{ID: id, Body: "final"})
	require.NoError(t, err)
	m, err := doQuery(t, l, tm.graceCtx, api.GetMessage, api.IDArgs{ID: id})
	require.NoError(t, err)
	assert.Equal(t, "final", m.Body)
	assert.True(t, m.IsEdited())

	_, err = doMutation(t, l, tm.adaCtx, api.RemoveMessage, api.IDArgs{ID: id})
	require.NoError(t, err)
	_, err = doQuery(t, l, tm.graceCtx, api.GetMessage, api.IDArgs{ID: id})
	assert.True(t, api.IsCode(err, api.CodeNotFound))

	kinds := []string{}
	events, err := store.ListEvents(db, store.ListEventsParams{WorkspaceID: tm.workspaceID})
	require.NoError(t, err)
	for _, e := range events {
		if strings.HasPrefix(e.Kind, "message_") {
			kinds = append(kinds, e.Kind)
		}
	}
	assert.Equal(t, []string{models.EventKindMessageCreated, models.EventKindMessageUpdated, models.EventKindMessageRemoved}, kinds)
}

func TestReactions_Toggle(t *testing.T) {
	l, _ := newTestBackend(t)
	tm := newTeam(t, l)

	id, err := doMutation(t, l, tm.adaCtx, api.CreateMessage, api.CreateMessageArgs{
		Body: "ship it", WorkspaceID: tm.workspaceID, ChannelID: tm.general.ID,
	})
	require.NoError(t, err)

	reactionID, err := doMutation(t, l, tm.graceCtx, api.ToggleReaction, api.ToggleReactionArgs{MessageID: id, Value: "🚀"})
	require.NoError(t, err)
	assert.NotEmpty(t, reactionID)
	_, err = doMutation(t, l, tm.adaCtx, api.ToggleReaction, api.ToggleReactionArgs{MessageID: id, Value: "🚀"})
	require.NoError(t, err)

	m, err := doQuery(t, l, tm.adaCtx, api.GetMessage, api.IDArgs{ID: id})
	require.NoError(t, err)
	require.Len(t, m.Reactions, 1)
	assert.Equal(t, 2, m.Reactions[0].Count)
	assert.ElementsMatch(t, []string{tm.adaMember.ID, tm.graceMember.ID}, m.Reactions[0].MemberIDs)

	reactionID, err = doMutation(t, l, tm.graceCtx, api.ToggleReaction, api.ToggleReactionArgs{MessageID: id, Value: "🚀"})
	require.NoError(t, err)
	assert.Empty(t, reactionID, "second toggle removes")

	m, err = doQuery(t, l, tm.adaCtx, api.GetMessage, api.IDArgs{ID: id})
	require.NoError(t, err)
	require.Len(t, m.Reactions, 1)
	assert.Equal(t, 1, m.Reactions[0].Count)

	_, err = doMutation(t, l, tm.adaCtx, api.ToggleReaction, api.ToggleReactionArgs{MessageID: id, Value: " "})
	assert.True(t, api.IsCode(err, api.CodeInvalidArgument))
}
