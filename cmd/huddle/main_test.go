package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// huddleTestBin is the binary built once for this package's tests.
var huddleTestBin string

// TestMain builds the huddle binary once before running all tests in this package.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "huddle-e2e-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	binPath := filepath.Join(dir, "huddle")
	buildCmd := exec.Command("go", "build", "-o", binPath, ".")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to build huddle binary: %v\n", err)
		os.Exit(1)
	}
	huddleTestBin = binPath

	code := m.Run()

	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// harness runs the real binary against an isolated home and database.
type harness struct {
	t      *testing.T
	home   string
	dbPath string
	env    []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	return &harness{
		t:      t,
		home:   home,
		dbPath: filepath.Join(t.TempDir(), "huddle.db"),
	}
}

type result struct {
	stdout   string
	exitCode int
}

// run is safe to call from several goroutines.
func (h *harness) run(args ...string) result {
	cmd := exec.Command(huddleTestBin, append([]string{"--db-path", h.dbPath}, args...)...)
	cmd.Env = append([]string{
		"HOME=" + h.home,
		"PATH=" + os.Getenv("PATH"),
	}, h.env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result{stdout: err.Error(), exitCode: -1}
		}
		code = exitErr.ExitCode()
	}
	return result{stdout: stdout.String(), exitCode: code}
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	ErrorCode string          `json:"error_code"`
}

func mustEnvelope(t *testing.T, out string) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &env), "failed to parse JSON: %s", out)
	return env
}

// id runs a mutating command and returns the id it reports.
func (h *harness) id(args ...string) string {
	h.t.Helper()
	res := h.run(args...)
	require.Equal(h.t, 0, res.exitCode, res.stdout)
	env := mustEnvelope(h.t, res.stdout)
	require.True(h.t, env.Success, res.stdout)

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(h.t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(h.t, out.ID)
	return out.ID
}

func (h *harness) general(userID, workspaceID string) string {
	h.t.Helper()
	res := h.run("--user", userID, "channel", "list", "-w", workspaceID)
	env := mustEnvelope(h.t, res.stdout)
	var out struct {
		Channels []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"channels"`
	}
	require.NoError(h.t, json.Unmarshal(env.Data, &out))
	require.Len(h.t, out.Channels, 1)
	return out.Channels[0].ID
}

func TestBinary_FailureExitsNonZeroWithEnvelope(t *testing.T) {
	h := newHarness(t)

	res := h.run("workspace", "create", "--name", "Engineering")
	assert.Equal(t, 1, res.exitCode)

	env := mustEnvelope(t, res.stdout)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.ErrorCode)
}

func TestBinary_WritesDefaultConfig(t *testing.T) {
	h := newHarness(t)

	res := h.run("db", "path")
	require.Equal(t, 0, res.exitCode, res.stdout)

	b, err := os.ReadFile(filepath.Join(h.home, ".config", "huddle", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "query_cache_ttl_seconds")
}

func TestBinary_PrettyJSON(t *testing.T) {
	h := newHarness(t)
	h.env = append(h.env, "HUDDLE_PRETTY_JSON=1")

	res := h.run("--version")
	require.Equal(t, 0, res.exitCode)
	assert.Contains(t, res.stdout, "\n  \"success\": true")
}

// A retried process with the same request id must not post twice, even
// when the first attempt's output was lost.
func TestBinary_RetryAfterLostReplyReplays(t *testing.T) {
	h := newHarness(t)
	userID := h.id("user", "create", "--name", "Ada Lovelace", "--email", "ada@example.com")
	h.env = append(h.env, "HUDDLE_USER="+userID)
	workspaceID := h.id("workspace", "create", "--name", "Engineering")
	channelID := h.general(userID, workspaceID)

	first := h.id("--request-id", "send-1", "message", "send", "-w", workspaceID, "-c", channelID, "-b", "deploying")
	retry := h.id("--request-id", "send-1", "message", "send", "-w", workspaceID, "-c", channelID, "-b", "deploying")
	assert.Equal(t, first, retry)

	res := h.run("message", "list", "-c", channelID)
	env := mustEnvelope(t, res.stdout)
	var page struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Count)
}

// Separate processes share the database through WAL and busy retries.
func TestBinary_ConcurrentWriters(t *testing.T) {
	h := newHarness(t)
	userID := h.id("user", "create", "--name", "Ada Lovelace", "--email", "ada@example.com")
	h.env = append(h.env, "HUDDLE_USER="+userID)
	workspaceID := h.id("workspace", "create", "--name", "Engineering")
	channelID := h.general(userID, workspaceID)

	const writers = 6
	var g errgroup.Group
	for i := range writers {
		g.Go(func() error {
			res := h.run("message", "send", "-w", workspaceID, "-c", channelID, "-b", fmt.Sprintf("msg %d", i))
			if res.exitCode != 0 {
				return fmt.Errorf("writer %d exited %d: %s", i, res.exitCode, res.stdout)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	res := h.run("message", "list", "-c", channelID, "--all")
	env := mustEnvelope(t, res.stdout)
	var page struct {
		Count  int  `json:"count"`
		IsDone bool `json:"is_done"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, writers, page.Count)
	assert.True(t, page.IsDone)

	doctor := mustEnvelope(t, h.run("doctor").stdout)
	assert.True(t, doctor.Success)
	assert.NotContains(t, string(doctor.Data), `"level"`)
}
