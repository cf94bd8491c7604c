package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	DBPath               string `yaml:"db_path"`
	User                 string `yaml:"user"`
	QueryCacheSize       int    `yaml:"query_cache_size"`
	QueryCacheTTLSeconds int    `yaml:"query_cache_ttl_seconds"`
}

// CacheSettings are the effective read-cache values.
type CacheSettings struct {
	Size int           `json:"size"`
	TTL  time.Duration `json:"ttl"`
}

const (
	defaultQueryCacheSize = 128
	defaultQueryCacheTTL  = 30 * time.Second
	maxQueryCacheSize     = 10000
)

// EffectiveCacheSettings returns validated cache settings with defaults.
// Invalid or missing config values fall back to defaults.
func EffectiveCacheSettings() CacheSettings {
	cfg := CacheSettings{Size: defaultQueryCacheSize, TTL: defaultQueryCacheTTL}

	s, err := LoadSettings()
	if err != nil {
		return cfg
	}
	if s.QueryCacheSize > 0 {
		cfg.Size = min(s.QueryCacheSize, maxQueryCacheSize)
	}
	if s.QueryCacheTTLSeconds > 0 {
		cfg.TTL = time.Duration(s.QueryCacheTTLSeconds) * time.Second
	}
	return cfg
}

// settingsOnce, settings and settingsErr implement the lazy-load singleton for
// config; the override pairs hold process-wide CLI flag values.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	overrideMu     sync.RWMutex
	dbPathOverride string
	userOverride   string
)

// SetDBPathOverride sets a process-wide database path override.
// Intended for CLI flag support (e.g. --db-path).
func SetDBPathOverride(path string) {
	overrideMu.Lock()
	dbPathOverride = path
	overrideMu.Unlock()
}

func getDBPathOverride() string {
	overrideMu.RLock()
	v := dbPathOverride
	overrideMu.RUnlock()
	return v
}

// SetUserOverride sets a process-wide user id override (--user).
func SetUserOverride(userID string) {
	overrideMu.Lock()
	userOverride = userID
	overrideMu.Unlock()
}

// ResolveUser returns the acting user id.
// Order of precedence: --user, HUDDLE_USER, config.yaml user.
// An empty result means no identity is configured.
func ResolveUser() (string, error) {
	overrideMu.RLock()
	v := userOverride
	overrideMu.RUnlock()
	if v = strings.TrimSpace(v); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv("HUDDLE_USER")); v != "" {
		return v, nil
	}
	s, err := LoadSettings()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s.User), nil
}

func configPaths(dir string) []string {
	return []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(string(os.PathSeparator), "etc", "huddle", "config.yaml"),
		"config.yaml",
	}
}

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/huddle/config.yaml
// 2) /etc/huddle/config.yaml
// 3) ./config.yaml (lowest priority; allows repo-local overrides if desired)
// Environment variables are handled separately.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		dir, err := ConfigDir()
		if err != nil {
			settingsErr = err
			return
		}
		for _, p := range configPaths(dir) {
			s, err := loadSettingsFile(p)
			if err == nil {
				settings = s
				return
			}
			if !errors.Is(err, os.ErrNotExist) {
				settingsErr = err
				return
			}
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
