package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	s := NewLRU[string](10)

	s.Set("channels.list", `{"workspaceId":"w1"}`, "bar")

	entry, ok := s.Get("channels.list", `{"workspaceId":"w1"}`)
	require.True(t, ok)
	assert.Equal(t, "bar", entry.Value)
	assert.Equal(t, "channels.list", entry.Scope)
	assert.Nil(t, entry.ExpiresAt)
	assert.False(t, entry.CreatedAt.IsZero())

	s.Set("channels.list", `{"workspaceId":"w1"}`, "baz")
	entry, ok = s.Get("channels.list", `{"workspaceId":"w1"}`)
	require.True(t, ok)
	assert.Equal(t, "baz", entry.Value)

	_, ok = s.Get("channels.list", "missing")
	assert.False(t, ok)

	assert.True(t, s.Delete("channels.list", `{"workspaceId":"w1"}`))
	_, ok = s.Get("channels.list", `{"workspaceId":"w1"}`)
	assert.False(t, ok)
	assert.False(t, s.Delete("channels.list", "nonexistent"))
}

func TestLRUEviction(t *testing.T) {
	s := NewLRU[int](3)

	s.Set("messages.list", "a", 1)
	s.Set("messages.list", "b", 2)
	s.Set("messages.list", "c", 3)
	assert.Equal(t, 3, s.Len())

	// Access "a" to make it most recently used (order: a, c, b).
	_, ok := s.Get("messages.list", "a")
	require.True(t, ok)

	s.Set("messages.list", "d", 4)
	assert.Equal(t, 3, s.Len())

	_, ok = s.Get("messages.list", "b")
	assert.False(t, ok, "b should have been evicted as LRU")
	assert.Equal(t, []string{"d", "a", "c"}, s.Keys("messages.list"))
}

func TestTTLExpiry(t *testing.T) {
	s := NewLRU[string](10)

	s.Set("workspaces.get", "short", "lived", WithTTL(50*time.Millisecond))
	s.Set("workspaces.get", "long", "lasting", WithTTL(10*time.Second))

	_, ok := s.Get("workspaces.get", "short")
	require.True(t, ok)

	time.Sleep(80 * time.Millisecond)

	_, ok = s.Get("workspaces.get", "short")
	assert.False(t, ok, "short entry should have expired")
	_, ok = s.Get("workspaces.get", "long")
	assert.True(t, ok)
}

func TestInvalidateScope(t *testing.T) {
	s := NewLRU[string](2)

	s.Set("channels.list", "k1", "v1")
	s.Set("channels.list", "k2", "v2")
	s.Set("members.list", "k1", "m1")

	assert.Equal(t, 2, s.Invalidate("channels.list"))
	assert.Equal(t, 0, s.Invalidate("channels.list"))
	assert.Nil(t, s.Keys("channels.list"))

	_, ok := s.Get("members.list", "k1")
	assert.True(t, ok, "other scopes must survive invalidation")
	assert.Equal(t, 1, s.Len())
}

func TestScopeIsolation(t *testing.T) {
	s := NewLRU[string](2)

	s.Set("a", "key", "a-value")
	s.Set("b", "key", "b-value")

	// Eviction in a must not affect b.
	s.Set("a", "key2", "v2")
	s.Set("a", "key3", "v3")

	_, ok := s.Get("a", "key")
	assert.False(t, ok)
	e, ok := s.Get("b", "key")
	require.True(t, ok)
	assert.Equal(t, "b-value", e.Value)
}

func TestConcurrentAccess(t *testing.T) {
	s := NewLRU[string](100)
	const goroutines = 20
	const ops = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := range goroutines {
		go func(id int) {
			defer wg.Done()
			scope := fmt.Sprintf("scope%d", id%5)
			for j := range ops {
				key := fmt.Sprintf("k%d", j%10)
				s.Set(scope, key, fmt.Sprintf("v%d-%d", id, j))
				_, _ = s.Get(scope, key)
				if j%7 == 0 {
					s.Delete(scope, key)
				}
				if j%13 == 0 {
					s.Invalidate(scope)
				}
			}
		}(i)
	}

	wg.Wait()
	assert.GreaterOrEqual(t, s.Len(), 0)
}
