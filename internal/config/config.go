// internal/config/config.go
package config

type Config struct {
	Relay RelayConfig `yaml:"relay"`
}

type RelayConfig struct {
	Network  NetworkConfig  `yaml:"network"`
	Feed     FeedConfig     `yaml:"feed"`
	Radio    RadioConfig    `yaml:"radio"`
	Registry RegistryConfig `yaml:"registry"`
	Log      LogConfig      `yaml:"log"`
}

// ---- NETWORK ----

type NetworkConfig struct {
	ProbeAddr       string `yaml:"probe_addr"` // host:port; empty => derived from feed
	Retries         int    `yaml:"retries"`
	ProbeIntervalMs int    `yaml:"probe_interval_ms"`
	TimeoutMs       int    `yaml:"timeout_ms"`
}

// ---- FEED ----

type FeedConfig struct {
	BaseURL        string `yaml:"base_url"`
	Port           int    `yaml:"port"` // 0 => use the URL's own port
	PollIntervalMs int    `yaml:"poll_interval_ms"`
	ValidOnly      *bool  `yaml:"valid_only"` // nil => true
	Rotate         *bool  `yaml:"rotate"`     // nil => true
	BufferSize     int    `yaml:"buffer_size"`
}

// ---- RADIO ----

type RadioConfig struct {
	AdvIntervalMs int `yaml:"adv_interval_ms"`
	HoldMs        int `yaml:"hold_ms"`
	FallbackMs    int `yaml:"fallback_ms"`
}

// ---- REGISTRY ----

type RegistryConfig struct {
	Capacity int `yaml:"capacity"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
}
