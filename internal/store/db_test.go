package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDBWithPath(filepath.Join(t.TempDir(), "huddle.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInitDB(t *testing.T) {
	testDBPath := filepath.Join(t.TempDir(), "test.db")

	db, err := InitDBWithPath(testDBPath)
	require.NoError(t, err)
	defer db.Close()

	_, statErr := os.Stat(testDBPath)
	require.NoError(t, statErr, "database file was not created")

	tables := []string{"users", "workspaces", "members", "channels", "conversations", "messages", "reactions", "events", "idempotency"}
	for _, table := range tables {
		var name string
		scanErr := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, scanErr, "table %s was not created", table)
	}

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)

	current, latest, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, latest, current)
}

func TestInitDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	db, err := InitDBWithPath(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDBWithPath(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestNormalizeSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?cache=shared", normalizeSQLiteDSN(":memory:"))
	assert.Equal(t, "file:/tmp/x.db?mode=rwc", normalizeSQLiteDSN("/tmp/x.db"))
	assert.Equal(t, "file:/tmp/x.db?mode=ro", normalizeSQLiteDSN("file:/tmp/x.db?mode=ro"))
}
