// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
)

var logLevels = map[string]bool{
	"":      true, // defaulted by Normalize
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	r := cfg.Relay

	// ------------------------------------------------------------
	// FEED
	// ------------------------------------------------------------

	if r.Feed.BaseURL == "" {
		return fmt.Errorf("feed: base_url is required")
	}
	u, err := url.Parse(r.Feed.BaseURL)
	if err != nil {
		return fmt.Errorf("feed: base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("feed: base_url must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("feed: base_url has no host")
	}
	if r.Feed.Port < 0 || r.Feed.Port > 65535 {
		return fmt.Errorf("feed: port %d out of range", r.Feed.Port)
	}
	if r.Feed.PollIntervalMs < 0 {
		return fmt.Errorf("feed: poll_interval_ms must be >= 0")
	}
	if r.Feed.BufferSize < 0 {
		return fmt.Errorf("feed: buffer_size must be >= 0")
	}

	// ------------------------------------------------------------
	// NETWORK
	// ------------------------------------------------------------

	if r.Network.Retries < 0 {
		return fmt.Errorf("network: retries must be >= 0")
	}
	if r.Network.ProbeIntervalMs < 0 {
		return fmt.Errorf("network: probe_interval_ms must be >= 0")
	}
	if r.Network.TimeoutMs < 0 {
		return fmt.Errorf("network: timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// RADIO
	// ------------------------------------------------------------

	if r.Radio.AdvIntervalMs < 0 {
		return fmt.Errorf("radio: adv_interval_ms must be >= 0")
	}
	if r.Radio.HoldMs < 0 {
		return fmt.Errorf("radio: hold_ms must be >= 0")
	}
	if r.Radio.FallbackMs < 0 {
		return fmt.Errorf("radio: fallback_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// REGISTRY
	// ------------------------------------------------------------

	if r.Registry.Capacity < 0 {
		return fmt.Errorf("registry: capacity must be >= 0")
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	if !logLevels[r.Log.Level] {
		return fmt.Errorf("log: unknown level %q", r.Log.Level)
	}

	return nil
}
