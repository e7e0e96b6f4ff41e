// Package config defines service configuration and its loading.
//
// Conventions:
//   - Defaults live in New; Load layers a YAML file and env vars on top.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"time"

	"github.com/okian/worthboard/internal/domain/normalize"
	"github.com/okian/worthboard/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// APIBaseURL is the community platform root, without a trailing slash.
	APIBaseURL string `koanf:"api_base_url"`

	// RequestTimeoutMS bounds each upstream HTTP request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// PageDelayMS is the pause between consecutive page requests.
	PageDelayMS int `koanf:"page_delay_ms"`

	// PerPage is the page size requested from the platform.
	PerPage int `koanf:"per_page"`

	// CacheTTLSeconds is how long pulled data is reused per credential.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// CacheMaxEntries bounds the pull cache; the oldest entry is evicted.
	CacheMaxEntries int `koanf:"cache_max_entries"`

	// ExcludedSpaceMarker drops events whose space name contains it.
	ExcludedSpaceMarker string `koanf:"excluded_space_marker"`

	// MaxTopN caps the top_n a caller may request.
	MaxTopN int `koanf:"max_top_n"`

	// MaxAmount caps the amount a caller may apportion.
	MaxAmount float64 `koanf:"max_amount"`

	// DefaultPostWeights are used by the quick leaderboards.
	DefaultPostWeights scoring.PostWeights `koanf:"default_post_weights"`

	// DefaultEventWeights are used when an events query omits weights.
	DefaultEventWeights scoring.EventWeights `koanf:"default_event_weights"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		APIBaseURL:          "https://app.circle.so",
		RequestTimeoutMS:    30_000,
		PageDelayMS:         250,
		PerPage:             100,
		CacheTTLSeconds:     3600,
		CacheMaxEntries:     256,
		ExcludedSpaceMarker: normalize.DefaultExcludedSpace,
		MaxTopN:             100,
		MaxAmount:           10_000,
		DefaultPostWeights:  scoring.DefaultPostWeights(),
		DefaultEventWeights: scoring.DefaultEventWeights(),
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// PageDelay returns PageDelayMS as a duration.
func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMS) * time.Millisecond
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
