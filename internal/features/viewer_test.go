package features

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/backend"
	"github.com/dotcommander/huddle/internal/mutation"
	"github.com/dotcommander/huddle/internal/store"
	"github.com/dotcommander/huddle/pkg/cache"
)

func newLocalClient(t *testing.T) *Client {
	t.Helper()
	db, err := store.InitDBWithPath(filepath.Join(t.TempDir(), "huddle.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewClient(backend.NewLocal(db), WithCache(cache.NewLRU[any](16), time.Minute))
}

func signUpAs(t *testing.T, c *Client, name, email string) context.Context {
	t.Helper()
	id, err := c.CreateUser().Mutate(context.Background(), api.CreateUserArgs{Name: name, Email: email}, mutation.Options[string]{ThrowError: true})
	require.NoError(t, err)
	return backend.WithUser(context.Background(), id)
}

func TestCachedReadsAreKeptPerUser(t *testing.T) {
	client := newLocalClient(t)
	ada := signUpAs(t, client, "Ada Lovelace", "ada@example.com")
	eve := signUpAs(t, client, "Eve", "eve@example.com")

	wsID, err := client.CreateWorkspace().Mutate(ada, api.CreateWorkspaceArgs{Name: "Secret"}, mutation.Options[string]{ThrowError: true})
	require.NoError(t, err)

	workspaces := client.GetWorkspaces()
	got, err := workspaces.Load(ada, api.NoArgs{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = workspaces.Load(eve, api.NoArgs{})
	require.NoError(t, err)
	assert.Empty(t, got)

	me := client.CurrentUser()
	u, err := me.Load(ada, api.NoArgs{})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.Name)
	u, err = me.Load(eve, api.NoArgs{})
	require.NoError(t, err)
	assert.Equal(t, "Eve", u.Name)

	ws := client.GetWorkspace()
	_, err = ws.Load(ada, api.IDArgs{ID: wsID})
	require.NoError(t, err)
	_, err = ws.Load(eve, api.IDArgs{ID: wsID})
	assert.True(t, api.IsCode(err, api.CodeForbidden), "got %v", err)
}
