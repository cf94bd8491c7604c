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

// signUpActor attributes users.create calls made without an identity.
const signUpActor = "anonymous"

func (l *Local) registerUsers() {
	// Sign-up runs without an identity, so it bypasses mutate.
	l.handlers[api.CreateUser.Name] = decode(func(ctx context.Context, in api.CreateUserArgs) (string, error) {
		actor, ok := UserFrom(ctx)
		if !ok {
			actor = signUpActor
		}
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return "", api.Errorf(api.CodeInvalidArgument, "name is required")
		}
		email := strings.TrimSpace(in.Email)
		if !strings.Contains(email, "@") {
			return "", api.Errorf(api.CodeInvalidArgument, "a valid email is required")
		}

		id, _, err := store.RunIdempotent(ctx, l.db, actor, requestIDFrom(ctx), api.CreateUser.Name, func(tx *sql.Tx) (string, error) {
			if _, err := store.GetUserByEmail(tx, email); err == nil {
				return "", api.Errorf(api.CodeConflict, "email %s is already registered", email)
			}
			u, err := store.CreateUserTx(tx, name, email, in.Image)
			if err != nil {
				return "", err
			}
			if _, err := store.InsertEventTx(tx, models.EventKindUserCreated, u.ID, "", fmt.Sprintf("User created: %s", u.Name)); err != nil {
				return "", fmt.Errorf("failed to append event: %w", err)
			}
			return u.ID, nil
		})
		return id, err
	})

	query(l, api.CurrentUser, func(ctx context.Context, _ api.NoArgs) (*models.User, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}
		return store.GetUser(l.db, userID)
	})
}
