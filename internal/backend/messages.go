package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/models"
	"github.com/dotcommander/huddle/internal/store"
)

// MaxReactionLength bounds a reaction value in bytes.
const MaxReactionLength = 64

func (l *Local) registerMessages() {
	mutate(l, api.CreateMessage, func(tx *sql.Tx, userID string, in api.CreateMessageArgs) (string, error) {
		if strings.TrimSpace(in.Body) == "" && in.Image == "" {
			return "", api.Errorf(api.CodeInvalidArgument, "message body is required")
		}
		author, err := membership(tx, in.WorkspaceID, userID)
		if err != nil {
			return "", err
		}

		msg := models.Message{
			Body:            in.Body,
			Image:           in.Image,
			MemberID:        author.ID,
			WorkspaceID:     in.WorkspaceID,
			ChannelID:       in.ChannelID,
			ConversationID:  in.ConversationID,
			ParentMessageID: in.ParentMessageID,
		}
		if err := resolveStream(tx, &msg); err != nil {
			return "", err
		}
		if err := canSee(tx, &msg, author); err != nil {
			return "", err
		}

		created, err := store.CreateMessageTx(tx, &msg)
		if err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindMessageCreated, userID, in.WorkspaceID, fmt.Sprintf("Message posted: %s", created.ID)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return created.ID, nil
	})

	query(l, api.GetMessage, func(ctx context.Context, in api.IDArgs) (*models.MessageView, error) {
		m, err := store.GetMessage(l.db, in.ID)
		if err != nil {
			return nil, err
		}
		member, err := memberFromContext(ctx, l.db, m.WorkspaceID)
		if err != nil {
			return nil, err
		}
		if err := canSee(l.db, m, member); err != nil {
			return nil, err
		}
		views, err := l.populate([]*models.Message{m})
		if err != nil {
			return nil, err
		}
		return views[0], nil
	})

	query(l, api.ListMessages, func(ctx context.Context, in api.ListMessagesArgs) (*models.MessagePage, error) {
		workspaceID, conversationID, err := l.stream(in)
		if err != nil {
			return nil, err
		}
		member, err := memberFromContext(ctx, l.db, workspaceID)
		if err != nil {
			return nil, err
		}
		if conversationID != "" {
			if err := participant(l.db, conversationID, member); err != nil {
				return nil, err
			}
		}
		rows, err := store.ListMessages(l.db, store.MessageFilter{
			ChannelID:       in.ChannelID,
			ConversationID:  in.ConversationID,
			ParentMessageID: in.ParentMessageID,
			Cursor:          in.Cursor,
			Limit:           in.Limit,
		})
		if err != nil {
			return nil, err
		}
		views, err := l.populate(rows.Messages)
		if err != nil {
			return nil, err
		}
		return &models.MessagePage{Messages: views, NextCursor: rows.NextCursor, IsDone: rows.IsDone}, nil
	})

	mutate(l, api.UpdateMessage, func(tx *sql.Tx, userID string, in api.UpdateMessageArgs) (string, error) {
		if strings.TrimSpace(in.Body) == "" {
			return "", api.Errorf(api.CodeInvalidArgument, "message body is required")
		}
		m, err := authoredMessage(tx, in.ID, userID)
		if err != nil {
			return "", err
		}
		if err := store.UpdateMessageBodyTx(tx, in.ID, in.Body); err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindMessageUpdated, userID, m.WorkspaceID, fmt.Sprintf("Message edited: %s", in.ID)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return in.ID, nil
	})

	mutate(l, api.RemoveMessage, func(tx *sql.Tx, userID string, in api.IDArgs) (string, error) {
		m, err := authoredMessage(tx, in.ID, userID)
		if err != nil {
			return "", err
		}
		if err := store.DeleteMessageTx(tx, in.ID); err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindMessageRemoved, userID, m.WorkspaceID, fmt.Sprintf("Message removed: %s", in.ID)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return in.ID, nil
	})

	// Replies with "" when the toggle removed the reaction.
	mutate(l, api.ToggleReaction, func(tx *sql.Tx, userID string, in api.ToggleReactionArgs) (string, error) {
		value := strings.TrimSpace(in.Value)
		if value == "" || len(value) > MaxReactionLength {
			return "", api.Errorf(api.CodeInvalidArgument, "reaction must be 1 to %d bytes", MaxReactionLength)
		}
		m, err := store.GetMessage(tx, in.MessageID)
		if err != nil {
			return "", err
		}
		member, err := membership(tx, m.WorkspaceID, userID)
		if err != nil {
			return "", err
		}
		if err := canSee(tx, m, member); err != nil {
			return "", err
		}
		r, err := store.ToggleReactionTx(tx, m.WorkspaceID, m.ID, member.ID, value)
		if err != nil {
			return "", err
		}

		id, verb := "", "removed"
		if r != nil {
			id, verb = r.ID, "added"
		}
		if _, err := store.InsertEventTx(tx, models.EventKindReactionToggled, userID, m.WorkspaceID, fmt.Sprintf("Reaction %s %s on %s", value, verb, m.ID)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return id, nil
	})
}

// resolveStream checks that msg targets a stream inside its workspace. A
// reply inherits its parent's channel or conversation when none is given.
// Threads are one level deep: a reply cannot be a parent.
func resolveStream(tx *sql.Tx, msg *models.Message) error {
	if msg.ParentMessageID != "" {
		parent, err := store.GetMessage(tx, msg.ParentMessageID)
		if err != nil {
			return err
		}
		if parent.WorkspaceID != msg.WorkspaceID {
			return api.Errorf(api.CodeInvalidArgument, "parent message is in another workspace")
		}
		if parent.ParentMessageID != "" {
			return api.Errorf(api.CodeInvalidArgument, "cannot reply to a reply").
				With("parent_message_id", parent.ParentMessageID)
		}
		if msg.ChannelID == "" && msg.ConversationID == "" {
			msg.ChannelID = parent.ChannelID
			msg.ConversationID = parent.ConversationID
		}
		if msg.ChannelID != parent.ChannelID || msg.ConversationID != parent.ConversationID {
			return api.Errorf(api.CodeInvalidArgument, "a reply must be posted where its parent is")
		}
	}

	switch {
	case msg.ChannelID != "" && msg.ConversationID != "":
		return api.Errorf(api.CodeInvalidArgument, "a message belongs to a channel or a conversation, not both")
	case msg.ChannelID != "":
		c, err := store.GetChannel(tx, msg.ChannelID)
		if err != nil {
			return err
		}
		if c.WorkspaceID != msg.WorkspaceID {
			return api.Errorf(api.CodeInvalidArgument, "channel is in another workspace")
		}
	case msg.ConversationID != "":
		c, err := store.GetConversation(tx, msg.ConversationID)
		if err != nil {
			return err
		}
		if c.WorkspaceID != msg.WorkspaceID {
			return api.Errorf(api.CodeInvalidArgument, "conversation is in another workspace")
		}
	default:
		return api.Errorf(api.CodeInvalidArgument, "a channel, conversation or parent message is required")
	}
	return nil
}

func authoredMessage(tx *sql.Tx, messageID, userID string) (*models.Message, error) {
	m, err := store.GetMessage(tx, messageID)
	if err != nil {
		return nil, err
	}
	author, err := membership(tx, m.WorkspaceID, userID)
	if err != nil {
		return nil, err
	}
	if m.MemberID != author.ID {
		return nil, api.Errorf(api.CodeForbidden, "only the author can change this message")
	}
	return m, nil
}

// stream resolves the workspace a listing reads from, and the direct
// conversation when the listing is private.
func (l *Local) stream(in api.ListMessagesArgs) (workspaceID, conversationID string, err error) {
	switch {
	case in.ChannelID != "":
		c, err := store.GetChannel(l.db, in.ChannelID)
		if err != nil {
			return "", "", err
		}
		return c.WorkspaceID, "", nil
	case in.ConversationID != "":
		c, err := store.GetConversation(l.db, in.ConversationID)
		if err != nil {
			return "", "", err
		}
		return c.WorkspaceID, c.ID, nil
	case in.ParentMessageID != "":
		m, err := store.GetMessage(l.db, in.ParentMessageID)
		if err != nil {
			return "", "", err
		}
		return m.WorkspaceID, m.ConversationID, nil
	default:
		return "", "", api.Errorf(api.CodeInvalidArgument, "a channel, conversation or parent message is required")
	}
}

// populate joins authors, reactions and thread summaries onto messages.
func (l *Local) populate(msgs []*models.Message) ([]*models.MessageView, error) {
	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	reactions, err := store.ReactionGroups(l.db, ids)
	if err != nil {
		return nil, err
	}
	threads, err := store.ThreadSummaries(l.db, ids)
	if err != nil {
		return nil, err
	}

	authors := make(map[string]*models.MemberWithUser)
	views := make([]*models.MessageView, 0, len(msgs))
	for _, m := range msgs {
		author, ok := authors[m.MemberID]
		if !ok {
			author, err = store.GetMemberWithUser(l.db, m.MemberID)
			if err != nil {
				return nil, err
			}
			authors[m.MemberID] = author
		}
		groups := reactions[m.ID]
		if groups == nil {
			groups = []models.ReactionGroup{}
		}
		views = append(views, &models.MessageView{
			Message:   *m,
			Member:    author.Member,
			User:      author.User,
			Reactions: groups,
			Thread:    threads[m.ID],
		})
	}
	return views, nil
}
