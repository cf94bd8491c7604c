package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/huddle/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "huddle"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# huddle configuration
# Run: huddle --help

# Optional: override the SQLite database location.
# Can also be set via HUDDLE_DB_PATH or --db-path.
# db_path: ~/.config/huddle/huddle.db

# Optional: default user id for commands that act on your behalf.
# Can also be set via HUDDLE_USER or --user.
# user: usr_...

# Read cache: entries per API scope and lifetime in seconds (0 disables expiry).
# query_cache_size: 128
# query_cache_ttl_seconds: 30
`
