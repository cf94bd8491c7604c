package cache

import "time"

// Store is a scoped key-value cache with optional TTL.
type Store[V any] interface {
	Set(scope, key string, value V, opts ...Option)
	Get(scope, key string) (Entry[V], bool)
	Delete(scope, key string) bool
	// Invalidate drops every entry in scope and returns how many were removed.
	Invalidate(scope string) int
	Keys(scope string) []string
	Len() int
}

// Entry represents a cached value.
type Entry[V any] struct {
	Key       string
	Value     V
	Scope     string
	ExpiresAt *time.Time
	UpdatedAt time.Time
	CreatedAt time.Time
}

type setOptions struct {
	ttl time.Duration
}

// Option configures a Set operation.
type Option func(*setOptions)

// WithTTL sets a time-to-live on the entry.
func WithTTL(d time.Duration) Option {
	return func(o *setOptions) {
		o.ttl = d
	}
}
