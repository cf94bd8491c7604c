package mutation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dotcommander/huddle/pkg/cache"
)

// Query wraps a remote read. Data stays absent until the first successful
// Load; IsLoading is true while it is absent.
type Query[In, Out any] struct {
	op Operation[In, Out]

	cache     cache.Store[any]
	scope     string
	ttl       time.Duration
	partition func(ctx context.Context) string

	mu     sync.Mutex
	data   Out
	loaded bool
	err    error
}

// QueryOption configures a Query.
type QueryOption func(*queryConfig)

type queryConfig struct {
	cache     cache.Store[any]
	scope     string
	ttl       time.Duration
	partition func(ctx context.Context) string
}

// WithCache serves repeated loads with the same input from c under scope.
// A ttl of zero keeps entries until they are evicted or invalidated.
func WithCache(c cache.Store[any], scope string, ttl time.Duration) QueryOption {
	return func(cfg *queryConfig) {
		cfg.cache = c
		cfg.scope = scope
		cfg.ttl = ttl
	}
}

// WithPartition splits cached results by fn(ctx), so callers that see
// different data for the same input never share an entry.
func WithPartition(fn func(ctx context.Context) string) QueryOption {
	return func(cfg *queryConfig) {
		cfg.partition = fn
	}
}

// NewQuery returns a Query around op.
func NewQuery[In, Out any](op Operation[In, Out], opts ...QueryOption) *Query[In, Out] {
	cfg := queryConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Query[In, Out]{
		op:        op,
		cache:     cfg.cache,
		scope:     cfg.scope,
		ttl:       cfg.ttl,
		partition: cfg.partition,
	}
}

// Load fetches the result for in, from the cache when possible.
func (q *Query[In, Out]) Load(ctx context.Context, in In) (Out, error) {
	key, cacheable := q.cacheKey(ctx, in)
	if cacheable {
		if e, ok := q.cache.Get(q.scope, key); ok {
			if out, ok := e.Value.(Out); ok {
				q.record(out, nil)
				return out, nil
			}
		}
	}

	out, err := q.op(ctx, in)
	if err != nil {
		q.record(out, err)
		var zero Out
		return zero, err
	}

	if cacheable {
		var opts []cache.Option
		if q.ttl > 0 {
			opts = append(opts, cache.WithTTL(q.ttl))
		}
		q.cache.Set(q.scope, key, out, opts...)
	}
	q.record(out, nil)
	return out, nil
}

func (q *Query[In, Out]) cacheKey(ctx context.Context, in In) (string, bool) {
	if q.cache == nil {
		return "", false
	}
	var key string
	if b, err := json.Marshal(in); err == nil {
		key = string(b)
	} else {
		key = fmt.Sprintf("%v", in)
	}
	if q.partition != nil {
		key = q.partition(ctx) + "\x00" + key
	}
	return key, true
}

func (q *Query[In, Out]) record(out Out, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.err = err
	if err == nil {
		q.data = out
		q.loaded = true
	}
}

// Data returns the latest loaded result, or the zero value.
func (q *Query[In, Out]) Data() Out {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.data
}

// Err returns the failure of the latest Load, or nil.
func (q *Query[In, Out]) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// IsLoading reports whether no result has been loaded yet.
func (q *Query[In, Out]) IsLoading() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.loaded
}
