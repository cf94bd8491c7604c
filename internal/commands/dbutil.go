package commands

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dotcommander/huddle/internal/app"
	"github.com/dotcommander/huddle/internal/backend"
	"github.com/dotcommander/huddle/internal/features"
	"github.com/dotcommander/huddle/internal/output"
	"github.com/dotcommander/huddle/internal/store"
	"github.com/dotcommander/huddle/pkg/cache"
)

// DB is an alias so command code doesn't need to import database/sql.
type DB = sql.DB

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// Intentionally hide the original error: the JSON error response is the output.
	return "error already printed"
}

func (e printedError) Unwrap() error { return e.err }

func openDB() (*DB, func(), error) {
	dbPath, err := app.GetDBPath()
	if err != nil {
		return nil, nil, err
	}

	db, err := store.InitDBWithPath(dbPath)
	if err != nil {
		return nil, nil, err
	}

	return db, func() { _ = db.Close() }, nil
}

func withDB(fn func(db *DB) error) error {
	db, closeDB, err := openDB()
	if err != nil {
		return cmdErr(err)
	}
	defer closeDB()

	if err := fn(db); err != nil {
		return cmdErr(err)
	}
	return nil
}

// session is what a command needs to talk to the backend on behalf of the
// acting user.
type session struct {
	ctx       context.Context
	client    *features.Client
	db        *DB
	userID    string
	requestID string
}

// withSession opens the database and builds a cached client acting as the
// resolved user. Mutations made through s.ctx carry the command's request id.
func withSession(cmd *cobra.Command, fn func(s *session) error) error {
	return withDB(func(db *DB) error {
		userID, err := app.ResolveUser()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if userID != "" {
			ctx = backend.WithUser(ctx, userID)
		}
		requestID := resolveRequestID(cmd)
		ctx = backend.WithRequestID(ctx, requestID)

		cs := app.EffectiveCacheSettings()
		client := features.NewClient(
			backend.NewLocal(db),
			features.WithCache(cache.NewLRU[any](cs.Size), cs.TTL),
		)

		return fn(&session{
			ctx:       ctx,
			client:    client,
			db:        db,
			userID:    userID,
			requestID: requestID,
		})
	})
}

// sub returns a copy of s whose mutations use the i-th derived request id.
// withContext copies the session onto ctx, keeping identity and request id.
func (s *session) withContext(ctx context.Context) *session {
	cp := *s
	cp.ctx = ctx
	return &cp
}

func (s *session) sub(i int) *session {
	cp := *s
	cp.requestID = subRequestID(s.requestID, i)
	cp.ctx = backend.WithRequestID(s.ctx, cp.requestID)
	return &cp
}

func cmdErr(err error) error {
	if err == nil {
		return nil
	}
	var pe printedError
	if errors.As(err, &pe) {
		return err
	}
	attrs := []any{"error", err.Error()}
	type slogAttrError interface {
		SlogAttrs() []any
	}
	var detailed slogAttrError
	if errors.As(err, &detailed) {
		attrs = append(attrs, detailed.SlogAttrs()...)
	}
	slog.Error("command error", attrs...)
	return printedError{err: err}
}

func outputConfig(cmd *cobra.Command) output.Config {
	cfg := output.DefaultConfig()
	cfg.Writer = cmd.OutOrStdout()
	return cfg
}

func printSuccess(cmd *cobra.Command, data any) error {
	return output.PrintWith(outputConfig(cmd), output.Success(data))
}
