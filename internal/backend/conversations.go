package backend

import (
	"database/sql"
	"fmt"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/models"
	"github.com/dotcommander/huddle/internal/store"
)

func (l *Local) registerConversations() {
	mutate(l, api.CreateOrGetConversation, func(tx *sql.Tx, userID string, in api.CreateOrGetConversationArgs) (string, error) {
		current, err := membership(tx, in.WorkspaceID, userID)
		if err != nil {
			return "", err
		}
		other, err := store.GetMember(tx, in.MemberID)
		if err != nil {
			return "", err
		}
		if other.WorkspaceID != in.WorkspaceID {
			return "", api.Errorf(api.CodeInvalidArgument, "member %s is not in workspace %s", in.MemberID, in.WorkspaceID)
		}

		existing, err := store.FindConversationTx(tx, in.WorkspaceID, current.ID, other.ID)
		if err != nil {
			return "", err
		}
		if existing != nil {
			return existing.ID, nil
		}

		c, err := store.CreateConversationTx(tx, in.WorkspaceID, current.ID, other.ID)
		if err != nil {
			return "", err
		}
		if _, err := store.InsertEventTx(tx, models.EventKindConversationOpened, userID, in.WorkspaceID, fmt.Sprintf("Conversation opened with %s", other.ID)); err != nil {
			return "", fmt.Errorf("failed to append event: %w", err)
		}
		return c.ID, nil
	})
}
