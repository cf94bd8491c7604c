// Package features exposes one mutation or query handle per remote
// operation, in the shape UI code consumes them.
package features

import (
	"context"
	"log/slog"
	"time"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/backend"
	"github.com/dotcommander/huddle/internal/mutation"
	"github.com/dotcommander/huddle/pkg/cache"
)

// Client builds handles bound to one Caller. Reads go through an optional
// shared cache that successful mutations invalidate. Cached reads are kept
// per caller identity; a long-lived Client may serve several users.
type Client struct {
	caller   api.Caller
	cache    cache.Store[any]
	ttl      time.Duration
	identity func(ctx context.Context) (string, bool)
}

// Option configures a Client.
type Option func(*Client)

// WithCache caches query results in c for ttl (zero keeps them until evicted
// or invalidated).
func WithCache(c cache.Store[any], ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.ttl = ttl
	}
}

// WithIdentity replaces how the Client reads the calling user from a
// context. The default is backend.UserFrom.
func WithIdentity(fn func(ctx context.Context) (string, bool)) Option {
	return func(cl *Client) {
		cl.identity = fn
	}
}

// NewClient returns a Client that calls through caller.
func NewClient(caller api.Caller, opts ...Option) *Client {
	c := &Client{caller: caller, identity: backend.UserFrom}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newQuery[In, Out any](c *Client, ref api.QueryRef[In, Out]) *mutation.Query[In, Out] {
	var opts []mutation.QueryOption
	if c.cache != nil {
		opts = append(opts,
			mutation.WithCache(c.cache, ref.Name, c.ttl),
			mutation.WithPartition(c.viewer),
		)
	}
	return mutation.NewQuery(api.Query(c.caller, ref), opts...)
}

// viewer partitions cached reads; anonymous calls share the "" partition.
func (c *Client) viewer(ctx context.Context) string {
	id, _ := c.identity(ctx)
	return id
}

// newMutation wraps ref so a successful call drops the cached reads in
// invalidates.
func newMutation[In, Out any](c *Client, ref api.MutationRef[In, Out], invalidates ...[]string) *mutation.Action[In, Out] {
	op := api.Mutation(c.caller, ref)
	return mutation.New(func(ctx context.Context, in In) (Out, error) {
		out, err := op(ctx, in)
		if err == nil {
			c.invalidate(invalidates...)
		}
		return out, err
	})
}

func (c *Client) invalidate(groups ...[]string) {
	if c.cache == nil {
		return
	}
	for _, scopes := range groups {
		for _, scope := range scopes {
			if n := c.cache.Invalidate(scope); n > 0 {
				slog.Default().Debug("cache invalidated", "scope", scope, "entries", n)
			}
		}
	}
}

// Read scopes grouped by the records they return.
var (
	userReads      = []string{api.CurrentUser.Name}
	workspaceReads = []string{api.GetWorkspace.Name, api.ListWorkspaces.Name, api.GetWorkspaceInfo.Name}
	channelReads   = []string{api.GetChannel.Name, api.ListChannels.Name}
	memberReads    = []string{api.CurrentMember.Name, api.GetMember.Name, api.ListMembers.Name}
	messageReads   = []string{api.GetMessage.Name, api.ListMessages.Name}
)
