package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dotcommander/huddle/internal/models"
)

// CreateUserTx inserts a user. Emails are stored lowercased.
func CreateUserTx(tx *sql.Tx, name, email, image string) (*models.User, error) {
	u := &models.User{
		ID:        generatePrefixedID("usr"),
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Image:     image,
		CreatedAt: now(),
	}
	if _, err := tx.Exec(`
		INSERT INTO users (id, name, email, image, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Email, nullable(u.Image), u.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}

// GetUser retrieves a user by ID.
func GetUser(q Querier, userID string) (*models.User, error) {
	u, err := scanUser(q.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, userID))
	if err != nil {
		return nil, notFoundOr(err, "user", userID)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by (case-insensitive) email.
func GetUserByEmail(q Querier, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(q.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return nil, notFoundOr(err, "user", email)
	}
	return u, nil
}
