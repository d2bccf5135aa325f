// internal/config/normalize.go
package config

import (
	"net"
	"net/url"
	"strconv"
)

// Default values applied by Normalize when the yaml leaves a field unset.
const (
	DefaultProbeIntervalMs = 5000
	DefaultTimeoutMs       = 5000
	DefaultPollIntervalMs  = 60000
	DefaultBufferSize      = 2048
	DefaultCapacity        = 8
	DefaultAdvIntervalMs   = 100
	DefaultHoldMs          = 10000
	DefaultFallbackMs      = 1000
	DefaultLogLevel        = "info"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	r := &cfg.Relay

	if r.Network.ProbeIntervalMs == 0 {
		r.Network.ProbeIntervalMs = DefaultProbeIntervalMs
	}
	if r.Network.TimeoutMs == 0 {
		r.Network.TimeoutMs = DefaultTimeoutMs
	}
	if r.Network.ProbeAddr == "" {
		r.Network.ProbeAddr = probeAddr(r.Feed)
	}

	if r.Feed.PollIntervalMs == 0 {
		r.Feed.PollIntervalMs = DefaultPollIntervalMs
	}
	if r.Feed.BufferSize == 0 {
		r.Feed.BufferSize = DefaultBufferSize
	}
	if r.Feed.ValidOnly == nil {
		v := true
		r.Feed.ValidOnly = &v
	}
	if r.Feed.Rotate == nil {
		v := true
		r.Feed.Rotate = &v
	}

	if r.Radio.AdvIntervalMs == 0 {
		r.Radio.AdvIntervalMs = DefaultAdvIntervalMs
	}
	if r.Radio.HoldMs == 0 {
		r.Radio.HoldMs = DefaultHoldMs
	}
	if r.Radio.FallbackMs == 0 {
		r.Radio.FallbackMs = DefaultFallbackMs
	}

	if r.Registry.Capacity == 0 {
		r.Registry.Capacity = DefaultCapacity
	}

	if r.Log.Level == "" {
		r.Log.Level = DefaultLogLevel
	}
}

// probeAddr derives a connectivity probe target from the feed endpoint.
// base_url is already validated, so parse errors cannot occur here.
func probeAddr(f FeedConfig) string {
	u, err := url.Parse(f.BaseURL)
	if err != nil {
		return ""
	}

	port := strconv.Itoa(f.Port)
	if f.Port == 0 {
		port = u.Port()
	}
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}

	return net.JoinHostPort(u.Hostname(), port)
}
