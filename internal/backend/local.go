// Package backend serves the api endpoints from a local SQLite database.
//
// Arguments and replies cross the boundary as JSON, so callers see the same
// behavior they would against a remote platform. There is no authentication:
// the user id in the context only attributes actions.
package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/store"
)

type ctxKey int

const (
	userKey ctxKey = iota
	requestIDKey
)

// WithUser attributes calls made with ctx to userID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// UserFrom returns the user id attached by WithUser.
func UserFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userKey).(string)
	return v, ok && v != ""
}

// WithRequestID makes mutations made with ctx idempotent per
// (user, request id, endpoint).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func requestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

type handlerFunc func(ctx context.Context, raw json.RawMessage) (any, error)

// Local implements api.Caller over a SQLite database.
type Local struct {
	db       *sql.DB
	handlers map[string]handlerFunc
}

var _ api.Caller = (*Local)(nil)

// NewLocal returns a backend serving every api endpoint from db.
func NewLocal(db *sql.DB) *Local {
	l := &Local{db: db, handlers: make(map[string]handlerFunc)}
	l.registerUsers()
	l.registerWorkspaces()
	l.registerChannels()
	l.registerMembers()
	l.registerConversations()
	l.registerMessages()
	return l
}

// Endpoints returns the registered endpoint names.
func (l *Local) Endpoints() []string {
	names := make([]string, 0, len(l.handlers))
	for name := range l.handlers {
		names = append(names, name)
	}
	return names
}

// Call implements api.Caller.
func (l *Local) Call(ctx context.Context, name string, args any, reply any) error {
	h, ok := l.handlers[name]
	if !ok {
		return api.Errorf(api.CodeNotFound, "unknown endpoint %q", name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode %s args: %w", name, err)
	}

	start := time.Now()
	out, err := h(ctx, raw)
	slog.Default().Debug("backend call",
		"endpoint", name,
		"duration_ms", time.Since(start).Milliseconds(),
		"ok", err == nil,
	)
	if err != nil {
		return translate(err)
	}
	if reply == nil {
		return nil
	}

	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode %s reply: %w", name, err)
	}
	if err := json.Unmarshal(b, reply); err != nil {
		return fmt.Errorf("failed to decode %s reply: %w", name, err)
	}
	return nil
}

// query registers a read endpoint.
func query[In, Out any](l *Local, ref api.QueryRef[In, Out], fn func(ctx context.Context, in In) (Out, error)) {
	l.handlers[ref.Name] = decode(fn)
}

// mutate registers a write endpoint. fn runs inside a transaction for the
// calling user, at most once per request id.
func mutate[In, Out any](l *Local, ref api.MutationRef[In, Out], fn func(tx *sql.Tx, userID string, in In) (Out, error)) {
	l.handlers[ref.Name] = decode(func(ctx context.Context, in In) (Out, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			var zero Out
			return zero, err
		}
		out, _, err := store.RunIdempotent(ctx, l.db, userID, requestIDFrom(ctx), ref.Name, func(tx *sql.Tx) (Out, error) {
			return fn(tx, userID, in)
		})
		return out, err
	})
}

func decode[In, Out any](fn func(ctx context.Context, in In) (Out, error)) handlerFunc {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var in In
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, api.Errorf(api.CodeInvalidArgument, "malformed arguments: %v", err)
		}
		return fn(ctx, in)
	}
}

// translate maps store failures onto api error codes.
func translate(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		return &api.Error{Code: api.CodeNotFound, Message: nf.Error(), Details: nf.Context()}
	}
	var reused *store.RequestIDReusedError
	if errors.As(err, &reused) {
		return &api.Error{Code: api.CodeConflict, Message: reused.Error(), Details: reused.Context()}
	}
	if store.IsUniqueConstraintErr(err) {
		return api.Errorf(api.CodeConflict, "record already exists")
	}
	return err
}
