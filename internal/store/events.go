package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dotcommander/huddle/internal/models"
)

// Event payload size constraints enforced by ValidateEventPayload.
const (
	MaxEventKindLength    = 128
	MaxEventActorLength   = 128
	MaxEventMessageLength = 4096
)

// ValidateEventPayload enforces event payload constraints.
func ValidateEventPayload(kind, actor, message string) error {
	kind = strings.TrimSpace(kind)
	actor = strings.TrimSpace(actor)
	message = strings.TrimSpace(message)

	if kind == "" {
		return errors.New("event kind is required")
	}
	if len(kind) > MaxEventKindLength {
		return fmt.Errorf("event kind exceeds max length (%d)", MaxEventKindLength)
	}
	if actor == "" {
		return errors.New("event actor is required")
	}
	if len(actor) > MaxEventActorLength {
		return fmt.Errorf("event actor exceeds max length (%d)", MaxEventActorLength)
	}
	if message == "" {
		return errors.New("event message is required")
	}
	if len(message) > MaxEventMessageLength {
		return fmt.Errorf("event message exceeds max length (%d)", MaxEventMessageLength)
	}
	return nil
}

// InsertEventTx validates and appends an activity event.
func InsertEventTx(tx *sql.Tx, kind, actor, workspaceID, message string) (int64, error) {
	if err := ValidateEventPayload(kind, actor, message); err != nil {
		return 0, err
	}

	result, err := tx.Exec(`
		INSERT INTO events (kind, actor, workspace_id, message, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, kind, actor, nullable(workspaceID), message, now())
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	eventID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return eventID, nil
}

// ListEventsParams filters ListEvents.
type ListEventsParams struct {
	WorkspaceID string
	Actor       string
	Kind        string
	SinceID     int64
	Limit       int
	Desc        bool
}

// ListEvents returns activity events matching p.
func ListEvents(db *sql.DB, p ListEventsParams) ([]*models.Event, error) {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > 1000 {
		p.Limit = 1000
	}

	where := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if p.WorkspaceID != "" {
		where = append(where, "workspace_id = ?")
		args = append(args, p.WorkspaceID)
	}
	if p.Actor != "" {
		where = append(where, "actor = ?")
		args = append(args, p.Actor)
	}
	if p.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, p.Kind)
	}
	if p.SinceID > 0 {
		where = append(where, "id > ?")
		args = append(args, p.SinceID)
	}

	query := `SELECT id, kind, actor, workspace_id, message, created_at FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if p.Desc {
		query += " ORDER BY id DESC"
	} else {
		query += " ORDER BY id ASC"
	}
	query += " LIMIT ?"
	args = append(args, p.Limit)

	var out []*models.Event
	err := RetryWithBackoff(func() error {
		rows, err := db.Query(query, args...)
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}
		defer rows.Close()

		out = make([]*models.Event, 0)
		for rows.Next() {
			var e models.Event
			var workspaceID sql.NullString
			if err := rows.Scan(&e.ID, &e.Kind, &e.Actor, &workspaceID, &e.Message, &e.CreatedAt); err != nil {
				return fmt.Errorf("failed to scan event: %w", err)
			}
			e.WorkspaceID = scanNullString(workspaceID)
			out = append(out, &e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
