package store

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// migrationLock serializes schema migrations between huddle processes that
// open the same database at once. The lock lives beside the database file.
type migrationLock struct {
	f *os.File
}

func acquireMigrationLock(dbPath string) (*migrationLock, error) {
	path := dbPath + ".migrate.lock"
	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644) //nolint:gosec // path derived from the configured db path
	if err != nil {
		return nil, fmt.Errorf("open migration lock %s: %w", path, err)
	}
	// Blocks until the holder finishes migrating.
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	return &migrationLock{f: f}, nil
}

func (l *migrationLock) release() {
	if l == nil || l.f == nil {
		return
	}
	_ = syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	_ = l.f.Close()
}
