package store

import (
	"database/sql"
	"fmt"

	"github.com/dotcommander/huddle/internal/models"
)

// CreateWorkspaceTx inserts a workspace owned by userID.
func CreateWorkspaceTx(tx *sql.Tx, name, userID string) (*models.Workspace, error) {
	w := &models.Workspace{
		ID:        generatePrefixedID("wks"),
		Name:      name,
		UserID:    userID,
		JoinCode:  GenerateJoinCode(),
		CreatedAt: now(),
	}
	if _, err := tx.Exec(`
		INSERT INTO workspaces (id, name, user_id, join_code, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, w.ID, w.Name, w.UserID, w.JoinCode, w.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert workspace: %w", err)
	}
	return w, nil
}

// GetWorkspace retrieves a workspace by ID.
func GetWorkspace(q Querier, workspaceID string) (*models.Workspace, error) {
	w, err := scanWorkspace(q.QueryRow(`SELECT `+workspaceColumns+` FROM workspaces WHERE id = ?`, workspaceID))
	if err != nil {
		return nil, notFoundOr(err, "workspace", workspaceID)
	}
	return w, nil
}

// ListWorkspacesForUser returns the workspaces userID belongs to, oldest first.
func ListWorkspacesForUser(db *sql.DB, userID string) ([]*models.Workspace, error) {
	var workspaces []*models.Workspace

	err := RetryWithBackoff(func() error {
		rows, err := db.Query(`
			SELECT w.id, w.name, w.user_id, w.join_code, w.created_at
			FROM workspaces w
			JOIN members m ON m.workspace_id = w.id
			WHERE m.user_id = ?
			ORDER BY w.rowid
		`, userID)
		if err != nil {
			return fmt.Errorf("failed to query workspaces: %w", err)
		}
		defer rows.Close()

		workspaces = make([]*models.Workspace, 0)
		for rows.Next() {
			w, err := scanWorkspace(rows)
			if err != nil {
				return fmt.Errorf("failed to scan workspace row: %w", err)
			}
			workspaces = append(workspaces, w)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

// UpdateWorkspaceNameTx renames a workspace.
func UpdateWorkspaceNameTx(tx *sql.Tx, workspaceID, name string) error {
	res, err := tx.Exec(`UPDATE workspaces SET name = ? WHERE id = ?`, name, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	return mustAffect(res, "workspace", workspaceID)
}

// UpdateJoinCodeTx replaces the workspace join code and returns the new one.
func UpdateJoinCodeTx(tx *sql.Tx, workspaceID string) (string, error) {
	code := GenerateJoinCode()
	res, err := tx.Exec(`UPDATE workspaces SET join_code = ? WHERE id = ?`, code, workspaceID)
	if err != nil {
		return "", fmt.Errorf("failed to update join code: %w", err)
	}
	if err := mustAffect(res, "workspace", workspaceID); err != nil {
		return "", err
	}
	return code, nil
}

// DeleteWorkspaceTx removes a workspace; members, channels, conversations,
// messages and reactions go with it via ON DELETE CASCADE.
func DeleteWorkspaceTx(tx *sql.Tx, workspaceID string) error {
	res, err := tx.Exec(`DELETE FROM workspaces WHERE id = ?`, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return mustAffect(res, "workspace", workspaceID)
}
