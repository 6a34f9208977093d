// ABOUTME: Centralized configuration defaults for smilefeed
// ABOUTME: Contains magic numbers and hardcoded values for scheduling, display and serving

package config

import "time"

// Feed settings
const (
	DefaultBatchSize    = 3
	DefaultStartDate    = "2026-02-10"
	DefaultRelatedLimit = 3
	DefaultImagePolicy  = "last"
)

// HTTP settings
const (
	DefaultHTTPTimeout     = 30 * time.Second
	MaxSourceSize          = 10 * 1024 * 1024
	DefaultListen          = ":8080"
	DefaultRefreshInterval = 5 * time.Minute
)

// Display settings
const (
	DefaultListLimit = 20
	SeparatorWidth   = 60
	ExcerptLength    = 150
)

// Environment overrides
const (
	EnvSource    = "SMILEFEED_SOURCE"
	EnvStartDate = "SMILEFEED_START_DATE"
	EnvLogLevel  = "SMILEFEED_LOG_LEVEL"
)

// Storage settings
const (
	DefaultDirPerms = 0755
	cacheDBFilename = "cache.db"
)
