package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success   bool              `json:"success"`
	Data      json.RawMessage   `json:"data"`
	Error     string            `json:"error"`
	ErrorCode string            `json:"error_code"`
	Context   map[string]string `json:"error_context"`
}

// testCLI runs commands in-process against one temp database.
type testCLI struct {
	t      *testing.T
	dbPath string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HUDDLE_USER", "")
	t.Setenv("HUDDLE_REQUEST_ID", "")
	t.Setenv("HUDDLE_DB_PATH", "")
	t.Setenv("HUDDLE_PRETTY_JSON", "")
	t.Setenv("HUDDLE_DEBUG", "")
	return &testCLI{t: t, dbPath: filepath.Join(t.TempDir(), "huddle.db")}
}

func (c *testCLI) raw(args ...string) (string, error) {
	c.t.Helper()
	root := NewRootCmd("test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--db-path", c.dbPath}, args...))
	err := run(root)
	return out.String(), err
}

func (c *testCLI) exec(args ...string) envelope {
	c.t.Helper()
	out, _ := c.raw(args...)
	var env envelope
	require.NoError(c.t, json.Unmarshal([]byte(out), &env), out)
	return env
}

// ok runs args, requires success and decodes data into T.
func ok[T any](c *testCLI, args ...string) T {
	c.t.Helper()
	env := c.exec(args...)
	require.True(c.t, env.Success, "%v failed: %s (%s)", args, env.Error, env.ErrorCode)
	var out T
	require.NoError(c.t, json.Unmarshal(env.Data, &out))
	return out
}

type idReply struct {
	ID        string `json:"id"`
	RequestID string `json:"request_id"`
}

func (c *testCLI) signUp(name, email string) string {
	c.t.Helper()
	return ok[idReply](c, "user", "create", "--name", name, "--email", email).ID
}

func requireFlagExists(t *testing.T, cmd *cobra.Command, name string) {
	t.Helper()
	f := cmd.Flags().Lookup(name)
	require.NotNil(t, f, "flag %q", name)
}
