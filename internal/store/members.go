package store

import (
	"database/sql"
	"fmt"

	"github.com/dotcommander/huddle/internal/models"
)

// CreateMemberTx adds userID to a workspace with role.
func CreateMemberTx(tx *sql.Tx, userID, workspaceID string, role models.Role) (*models.Member, error) {
	m := &models.Member{
		ID:          generatePrefixedID("mem"),
		UserID:      userID,
		WorkspaceID: workspaceID,
		Role:        role,
		CreatedAt:   now(),
	}
	if _, err := tx.Exec(`
		INSERT INTO members (id, user_id, workspace_id, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.UserID, m.WorkspaceID, string(m.Role), m.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert member: %w", err)
	}
	return m, nil
}

// GetMember retrieves a member by ID.
func GetMember(q Querier, memberID string) (*models.Member, error) {
	m, err := scanMember(q.QueryRow(`SELECT `+memberColumns+` FROM members WHERE id = ?`, memberID))
	if err != nil {
		return nil, notFoundOr(err, "member", memberID)
	}
	return m, nil
}

// GetMemberByUser returns userID's membership in a workspace.
func GetMemberByUser(q Querier, workspaceID, userID string) (*models.Member, error) {
	m, err := scanMember(q.QueryRow(`
		SELECT `+memberColumns+` FROM members
		WHERE workspace_id = ? AND user_id = ?
	`, workspaceID, userID))
	if err != nil {
		return nil, notFoundOr(err, "member", userID)
	}
	return m, nil
}

// GetMemberWithUser joins a member with its user profile.
func GetMemberWithUser(q Querier, memberID string) (*models.MemberWithUser, error) {
	row := q.QueryRow(`
		SELECT m.id, m.user_id, m.workspace_id, m.role, m.created_at,
		       u.id, u.name, u.email, u.image, u.created_at
		FROM members m JOIN users u ON u.id = m.user_id
		WHERE m.id = ?
	`, memberID)
	mu, err := scanMemberWithUser(row)
	if err != nil {
		return nil, notFoundOr(err, "member", memberID)
	}
	return mu, nil
}

// ListMembers returns every member of a workspace with its user, oldest first.
func ListMembers(db *sql.DB, workspaceID string) ([]*models.MemberWithUser, error) {
	var members []*models.MemberWithUser

	err := RetryWithBackoff(func() error {
		rows, err := db.Query(`
			SELECT m.id, m.user_id, m.workspace_id, m.role, m.created_at,
			       u.id, u.name, u.email, u.image, u.created_at
			FROM members m JOIN users u ON u.id = m.user_id
			WHERE m.workspace_id = ?
			ORDER BY m.rowid
		`, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to query members: %w", err)
		}
		defer rows.Close()

		members = make([]*models.MemberWithUser, 0)
		for rows.Next() {
			mu, err := scanMemberWithUser(rows)
			if err != nil {
				return fmt.Errorf("failed to scan member row: %w", err)
			}
			members = append(members, mu)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

func scanMemberWithUser(row rowScanner) (*models.MemberWithUser, error) {
	var mu models.MemberWithUser
	var role string
	var image sql.NullString
	if err := row.Scan(
		&mu.ID, &mu.UserID, &mu.WorkspaceID, &role, &mu.CreatedAt,
		&mu.User.ID, &mu.User.Name, &mu.User.Email, &image, &mu.User.CreatedAt,
	); err != nil {
		return nil, err
	}
	mu.Role = models.Role(role)
	mu.User.Image = scanNullString(image)
	return &mu, nil
}

// UpdateMemberRoleTx changes a member's role.
func UpdateMemberRoleTx(tx *sql.Tx, memberID string, role models.Role) error {
	res, err := tx.Exec(`UPDATE members SET role = ? WHERE id = ?`, string(role), memberID)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return mustAffect(res, "member", memberID)
}

// CountAdmins returns how many admins workspaceID has.
func CountAdmins(q Querier, workspaceID string) (int, error) {
	var n int
	err := q.QueryRow(`SELECT COUNT(*) FROM members WHERE workspace_id = ? AND role = ?`, workspaceID, string(models.RoleAdmin)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}

// DeleteMemberTx removes a member along with its messages, reactions and
// direct conversations.
func DeleteMemberTx(tx *sql.Tx, memberID string) error {
	res, err := tx.Exec(`DELETE FROM members WHERE id = ?`, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return mustAffect(res, "member", memberID)
}
