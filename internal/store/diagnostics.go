package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Diagnostic represents a single consistency check finding.
type Diagnostic struct {
	Level           string `json:"level"` // "warning" or "error"
	Code            string `json:"code"`
	Message         string `json:"message"`
	SuggestedAction string `json:"suggested_action,omitempty"`
}

// RunDiagnostics performs consistency checks and returns findings.
func RunDiagnostics(db *sql.DB) ([]Diagnostic, error) {
	var diags []Diagnostic

	adminless, err := findAdminlessWorkspaces(db)
	if err != nil {
		return nil, fmt.Errorf("admin check: %w", err)
	}
	diags = append(diags, adminless...)

	orphans, err := findOrphanReplies(db)
	if err != nil {
		return nil, fmt.Errorf("thread check: %w", err)
	}
	diags = append(diags, orphans...)

	return diags, nil
}

// findAdminlessWorkspaces finds workspaces nobody can administer.
func findAdminlessWorkspaces(db *sql.DB) ([]Diagnostic, error) {
	ids, err := queryStringColumn(db, `
		SELECT w.id FROM workspaces w
		WHERE NOT EXISTS (
			SELECT 1 FROM members m WHERE m.workspace_id = w.id AND m.role = 'admin'
		)
	`)
	if err != nil {
		return nil, err
	}

	diags := make([]Diagnostic, 0, len(ids))
	for _, id := range ids {
		diags = append(diags, Diagnostic{
			Level:           "warning",
			Code:            "WORKSPACE_WITHOUT_ADMIN",
			Message:         fmt.Sprintf("workspace %s has no admin member", id),
			SuggestedAction: fmt.Sprintf("huddle member role --workspace %s --id <member> --role admin", id),
		})
	}
	return diags, nil
}

// findOrphanReplies finds replies whose parent lives in another stream.
func findOrphanReplies(db *sql.DB) ([]Diagnostic, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT r.id, p.id
		FROM messages r JOIN messages p ON p.id = r.parent_message_id
		WHERE COALESCE(r.channel_id, '') != COALESCE(p.channel_id, '')
		   OR COALESCE(r.conversation_id, '') != COALESCE(p.conversation_id, '')
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var diags []Diagnostic
	for rows.Next() {
		var replyID, parentID string
		if err := rows.Scan(&replyID, &parentID); err != nil {
			return nil, err
		}
		diags = append(diags, Diagnostic{
			Level:   "error",
			Code:    "REPLY_STREAM_MISMATCH",
			Message: fmt.Sprintf("reply %s is not in the same stream as parent %s", replyID, parentID),
		})
	}
	return diags, rows.Err()
}
