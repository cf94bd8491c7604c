package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/models"
	"github.com/dotcommander/huddle/internal/store"
)

// team is a workspace owned by ada with grace joined as a member.
type team struct {
	workspaceID string
	adaCtx      context.Context
	graceCtx    context.Context
	adaMember   *models.Member
	graceMember *models.Member
	general     *models.Channel
}

func newTeam(t *testing.T, l *Local) team {
	t.Helper()
	var tm team
	_, tm.adaCtx = signUp(t, l, "Ada", "ada@example.com")
	_, tm.graceCtx = signUp(t, l, "Grace", "grace@example.com")

	var err error
	tm.workspaceID, err = doMutation(t, l, tm.adaCtx, api.CreateWorkspace, api.CreateWorkspaceArgs{Name: "Engineering"})
	require.NoError(t, err)

	w, err := doQuery(t, l, tm.adaCtx, api.GetWorkspace, api.IDArgs{ID: tm.workspaceID})
	require.NoError(t, err)
	_, err = doMutation(t, l, tm.graceCtx, api.JoinWorkspace, api.JoinWorkspaceArgs{ID: tm.workspaceID, JoinCode: w.JoinCode})
	require.NoError(t, err)

	tm.adaMember, err = doQuery(t, l, tm.adaCtx, api.CurrentMember, api.WorkspaceArgs{WorkspaceID: tm.workspaceID})
	require.NoError(t, err)
	tm.graceMember, err = doQuery(t, l, tm.graceCtx, api.CurrentMember, api.WorkspaceArgs{WorkspaceID: tm.workspaceID})
	require.NoError(t, err)

	channels, err := doQuery(t, l, tm.adaCtx, api.ListChannels, api.WorkspaceArgs{WorkspaceID: tm.workspaceID})
	require.NoError(t, err)
	require.Len(t, channels, 1)
	tm.general = channels[0]
	return tm
}

func TestWorkspaces_CreateMakesCreatorAdminWithGeneral(t *testing.T) {
	l, db := newTestBackend(t)
	tm := newTeam(t, l)

	assert.Equal(t, models.RoleAdmin, tm.adaMember.Role)
	assert.Equal(t, models.RoleMember, tm.graceMember.Role)
	assert.Equal(t, DefaultChannelName, tm.general.Name)

	events, err := store.ListEvents(db, store.ListEventsParams{WorkspaceID: tm.workspaceID})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventKindWorkspaceCreated, events[0].Kind)
	assert.Equal(t, models.EventKindWorkspaceJoined, events[1].Kind)
}

func TestWorkspaces_NameValidation(t *testing.T) {
	l, _ := newTestBackend(t)
	_, ctx := signUp(t, l, "Ada", "ada@example.com")

	_, err := doMutation(t, l, ctx, api.CreateWorkspace, api.CreateWorkspaceArgs{Name: " ab "})
	assert.True(t, api.IsCode(err, api.CodeInvalidArgument))
}

func TestWorkspaces_ListAndInfo(t *testing.T) {
	l, _ := newTestBackend(t)
	tm := newTeam(t, l)
	_, outsiderCtx := signUp(t, l, "Linus", "linus@example.com")

	list, err := doQuery(t, l, tm.graceCtx, api.ListWorkspaces, api.NoArgs{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tm.workspaceID, list[0].ID)

	info, err := doQuery(t, l, outsiderCtx, api.GetWorkspaceInfo, api.IDArgs{ID: tm.workspaceID})
	require.NoError(t, err)
	assert.Equal(t, &models.WorkspaceInfo{Name: "Engineering", IsMember: false}, info)

	info, err = doQuery(t, l, tm.graceCtx, api.GetWorkspaceInfo, api.IDArgs{ID: tm.workspaceID})
	require.NoError(t, err)
	assert.True(t, info.IsMember)

	_, err = doQuery(t, l, outsiderCtx, api.GetWorkspace, api.IDArgs{ID: tm.workspaceID})
	assert.True(t, api.IsCode(err, api.CodeForbidden))

	member, err := doQuery(t, l, outsiderCtx, api.CurrentMember, api.WorkspaceArgs{WorkspaceID: tm.workspaceID})
	require.NoError(t, err)
	assert.Nil(t, member)
}

func TestWorkspaces_JoinRules(t *testing.T) {
	l, _ := newTestBackend(t)
	tm := newTeam(t, l)
	_, outsiderCtx := signUp(t, l, "Linus", "linus@example.com")

	_, err := doMutation(t, l, outsiderCtx, api.JoinWorkspace, api.JoinWorkspaceArgs{ID: tm.workspaceID, JoinCode: "zzzzzz"})
	assert.True(t, api.IsCode(err, api.CodeInvalidArgument))

	w, err := doQuery(t, l, tm.adaCtx, api.GetWorkspace, api.IDArgs{ID: tm.workspaceID})
	require.NoError(t, err)
	_, err = doMutation(t, l, tm.graceCtx, api.JoinWorkspace, api.JoinWorkspaceArgs{ID: tm.workspaceID, JoinCode: w.JoinCode})
	assert.True(t, api.IsCode(err, api.CodeConflict))

	_, err = doMutation(t, l, outsiderCtx, api.JoinWorkspace, api.JoinWorkspaceArgs{ID: tm.workspaceID, JoinCode: " " + w.JoinCode})
	require.NoError(t, err)
}

func TestWorkspaces_AdminOnlyOperations(t *testing.T) {
	l, _ := newTestBackend(t)
	tm := newTeam(t, l)

	_, err := doMutation(t, l, tm.graceCtx, api.UpdateWorkspace, api.UpdateWorkspaceArgs{ID: tm.workspaceID, Name: "Hijacked"})
	assert.True(t, api.IsCode(err, api.CodeForbidden))
	_, err = doMutation(t, l, tm.graceCtx, api.NewJoinCode, api.IDArgs{ID: tm.workspaceID})
	assert.True(t, api.IsCode(err, api.CodeForbidden))
	_, err = doMutation(t, l, tm.graceCtx, api.RemoveWorkspace, api.IDArgs{ID: tm.workspaceID})
	assert.True(t, api.IsCode(err, api.CodeForbidden))

	before, err := doQuery(t, l, tm.adaCtx, api.GetWorkspace, api.IDArgs{ID: tm.workspaceID})
	require.NoError(t, err)

	id, err := doMutation(t, l, tm.adaCtx, api.UpdateWorkspace, api.UpdateWorkspaceArgs{ID: tm.workspaceID, Name: "Platform"})
	require.NoError(t, err)
	assert.Equal(t, tm.workspaceID, id)
	_, err = doMutation(t, l, tm.adaCtx, api.NewJoinCode, api.IDArgs{ID: tm.workspaceID})
	require.NoError(t, err)

	after, err := doQuery(t, l, tm.adaCtx, api.GetWorkspace, api.IDArgs{ID: tm.workspaceID})
	require.NoError(t, err)
	assert.Equal(t, "Platform", after.Name)
	assert.NotEqual(t, before.JoinCode, after.JoinCode)

	_, err = doMutation(t, l, tm.adaCtx, api.RemoveWorkspace, api.IDArgs{ID: tm.workspaceID})
	require.NoError(t, err)
	_, err = doQuery(t, l, tm.adaCtx, api.GetWorkspaceInfo, api.IDArgs{ID: tm.workspaceID})
	assert.True(t, api.IsCode(err, api.CodeNotFound))
}

func TestChannels_AdminManagesChannels(t *testing.T) {
	l, _ := newTestBackend(t)
	tm := newTeam(t, l)

	_, err := doMutation(t, l, tm.graceCtx, api.CreateChannel, api.CreateChannelArgs{WorkspaceID: tm.workspaceID, Name: "random"})
	assert.True(t, api.IsCode(err, api.CodeForbidden))

	id, err := doMutation(t, l, tm.adaCtx, api.CreateChannel, api.CreateChannelArgs{WorkspaceID: tm.workspaceID, Name: "Release Planning"})
	require.NoError(t, err)

	c, err := doQuery(t, l, tm.graceCtx, api.GetChannel, api.IDArgs{ID: id})
	require.NoError(t, err)
	assert.Equal(t, "release-planning", c.Name)

	_, err = doMutation(t, l, tm.adaCtx, api.UpdateChannel, api.UpdateChannelArgs{ID: id, Name: "Launch"})
	require.NoError(t, err)
	c, err = doQuery(t, l, tm.graceCtx, api.GetChannel, api.IDArgs{ID: id})
	require.NoError(t, err)
	assert.Equal(t, "launch", c.Name)

	_, err = doMutation(t, l, tm.graceCtx, api.RemoveChannel, api.IDArgs{ID: id})
	assert.True(t, api.IsCode(err, api.CodeForbidden))
	_, err = doMutation(t, l, tm.adaCtx, api.RemoveChannel, api.IDArgs{ID: id})
	require.NoError(t, err)

	_, err = doQuery(t, l, tm.graceCtx, api.GetChannel, api.IDArgs{ID: id})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, api.CodeNotFound, apiErr.Code)
	assert.Equal(t, "channel", apiErr.Details["entity"])
}
