// ABOUTME: Configuration management for the article source, drip schedule and server
// ABOUTME: Reads JSON from the XDG config dir, applies env overrides and opens the source cache

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harper/smilefeed/internal/content"
	"github.com/harper/smilefeed/internal/feed"
	"github.com/harper/smilefeed/internal/storage"
	"github.com/harper/smilefeed/internal/timeutil"
)

// Config stores smilefeed configuration.
type Config struct {
	// Source is the CSV URL or a local file path.
	Source string `json:"source,omitempty"`

	// StartDate is the release date of the first batch (YYYY-MM-DD or RFC3339).
	StartDate string `json:"start_date,omitempty"`

	// BatchSize is the number of articles released per day.
	BatchSize int `json:"batch_size,omitempty"`

	// RequireSlugColumn drops rows with a blank Slug column instead of
	// slugifying their title.
	RequireSlugColumn bool `json:"require_slug_column,omitempty"`

	// FeaturedImage picks the "last" (default) or "first" image in the content.
	FeaturedImage string `json:"featured_image,omitempty"`

	RelatedLimit int `json:"related_limit,omitempty"`

	// DataDir holds the source cache. Supports ~ expansion.
	// Defaults to ~/.local/share/smilefeed.
	DataDir string `json:"data_dir,omitempty"`

	// Cache enables the SQLite source cache. Defaults to true.
	Cache *bool `json:"cache,omitempty"`

	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`

	// Listen is the address for `smilefeed serve`.
	Listen string `json:"listen,omitempty"`

	// RefreshInterval is how long `serve` keeps a built feed, e.g. "5m".
	RefreshInterval string `json:"refresh_interval,omitempty"`

	// StaleOnError serves the cached copy when a refetch fails.
	StaleOnError bool `json:"stale_on_error,omitempty"`
}

// Default returns a config with every default filled in.
func Default() *Config {
	enabled := true
	return &Config{
		StartDate:       DefaultStartDate,
		BatchSize:       DefaultBatchSize,
		FeaturedImage:   DefaultImagePolicy,
		RelatedLimit:    DefaultRelatedLimit,
		Cache:           &enabled,
		LogLevel:        "info",
		LogFormat:       "text",
		Listen:          DefaultListen,
		RefreshInterval: DefaultRefreshInterval.String(),
	}
}

// GetBatchSize returns the batch size, defaulting to DefaultBatchSize.
func (c *Config) GetBatchSize() int {
	if c.BatchSize == 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

// GetStartDate parses the configured start date, defaulting to DefaultStartDate.
func (c *Config) GetStartDate() (time.Time, error) {
	s := c.StartDate
	if s == "" {
		s = DefaultStartDate
	}
	t, err := timeutil.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("start_date: %w", err)
	}
	return t, nil
}

// GetRelatedLimit returns the related-article count.
func (c *Config) GetRelatedLimit() int {
	if c.RelatedLimit <= 0 {
		return DefaultRelatedLimit
	}
	return c.RelatedLimit
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// CacheEnabled reports whether the source cache should be used.
func (c *Config) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

// SetCache turns the source cache on or off.
func (c *Config) SetCache(enabled bool) {
	c.Cache = &enabled
}

// GetListen returns the HTTP listen address.
func (c *Config) GetListen() string {
	if c.Listen == "" {
		return DefaultListen
	}
	return c.Listen
}

// GetRefreshInterval parses the refresh interval, defaulting to DefaultRefreshInterval.
func (c *Config) GetRefreshInterval() (time.Duration, error) {
	if c.RefreshInterval == "" {
		return DefaultRefreshInterval, nil
	}
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("refresh_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("refresh_interval must be positive, got %s", d)
	}
	return d, nil
}

// GetLogLevel returns the log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// ApplyEnv overrides fields from SMILEFEED_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvSource); v != "" {
		c.Source = v
	}
	if v := getenv(EnvStartDate); v != "" {
		c.StartDate = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// FeedConfig converts the settings into a validated feed.Config.
func (c *Config) FeedConfig() (feed.Config, error) {
	start, err := c.GetStartDate()
	if err != nil {
		return feed.Config{}, fmt.Errorf("%w: %v", feed.ErrInvalidConfig, err)
	}

	policy := content.ImagePolicy(strings.ToLower(strings.TrimSpace(c.FeaturedImage)))
	if policy == "" {
		policy = content.FeaturedLast
	}

	fc := feed.Config{
		StartDate:         start,
		BatchSize:         c.GetBatchSize(),
		RequireSlugColumn: c.RequireSlugColumn,
		FeaturedImage:     policy,
	}
	if err := fc.Validate(); err != nil {
		return feed.Config{}, err
	}
	return fc, nil
}

// Validate checks every setting that can be checked without network access.
func (c *Config) Validate() error {
	if _, err := c.FeedConfig(); err != nil {
		return err
	}
	if _, err := c.GetRefreshInterval(); err != nil {
		return err
	}
	return nil
}

// CachePath returns the SQLite source cache path.
func (c *Config) CachePath() string {
	return filepath.Join(c.GetDataDir(), cacheDBFilename)
}

// OpenStore opens the source cache, or returns nil when caching is disabled.
func (c *Config) OpenStore() (storage.Store, error) {
	if !c.CacheEnabled() {
		return nil, nil
	}
	store, err := storage.NewSQLiteStore(c.CachePath())
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "smilefeed", "config.json")
}

// Exists reports whether a config file has been written.
func Exists() bool {
	_, err := os.Stat(GetConfigPath())
	return err == nil
}

// Load reads config from disk. A missing file yields the defaults.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config to path, replacing the file atomically.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPerms); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// defaultDataDir returns the standard XDG data directory for smilefeed.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "smilefeed")
}
