package backend

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/models"
	"github.com/dotcommander/huddle/internal/store"
)

// Name limits for workspaces and channels.
const (
	MinNameLength = 3
	MaxNameLength = 80
)

func requireUser(ctx context.Context) (string, error) {
	userID, ok := UserFrom(ctx)
	if !ok {
		return "", api.Errorf(api.CodeUnauthorized, "unauthorized")
	}
	return userID, nil
}

// membership returns userID's member record in workspaceID, failing
// FORBIDDEN for outsiders.
func membership(q store.Querier, workspaceID, userID string) (*models.Member, error) {
	m, err := store.GetMemberByUser(q, workspaceID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, api.Errorf(api.CodeForbidden, "not a member of workspace %s", workspaceID).
			With("workspace_id", workspaceID)
	}
	return m, err
}

func adminOf(q store.Querier, workspaceID, userID string) (*models.Member, error) {
	m, err := membership(q, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !m.IsAdmin() {
		return nil, api.Errorf(api.CodeForbidden, "only workspace admins can do this").
			With("workspace_id", workspaceID)
	}
	return m, nil
}

func memberFromContext(ctx context.Context, q store.Querier, workspaceID string) (*models.Member, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return membership(q, workspaceID, userID)
}

// participant fails FORBIDDEN unless member is one of the two sides of
// conversationID. Direct conversations are private to their participants.
func participant(q store.Querier, conversationID string, member *models.Member) error {
	c, err := store.GetConversation(q, conversationID)
	if err != nil {
		return err
	}
	if c.MemberOneID != member.ID && c.MemberTwoID != member.ID {
		return api.Errorf(api.CodeForbidden, "not a participant of conversation %s", conversationID).
			With("conversation_id", conversationID)
	}
	return nil
}

// canSee checks that member may read or react to m.
func canSee(q store.Querier, m *models.Message, member *models.Member) error {
	if m.ConversationID == "" {
		return nil
	}
	return participant(q, m.ConversationID, member)
}

// ValidateName trims a workspace name and checks its length.
func ValidateName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := len([]rune(name)); n < MinNameLength || n > MaxNameLength {
		return "", api.Errorf(api.CodeInvalidArgument, "%s name must be %d to %d characters", kind, MinNameLength, MaxNameLength)
	}
	return name, nil
}

// NormalizeChannelName lowercases name and joins words with dashes, the form
// channel names are stored in.
func NormalizeChannelName(name string) (string, error) {
	fields := strings.FieldsFunc(strings.ToLower(name), unicode.IsSpace)
	return ValidateName("channel", strings.Join(fields, "-"))
}
