// Package config provides configuration for the bridge.
//
// Configuration is loaded in layers:
//  1. Built-in defaults
//  2. Config file, TOML or YAML by extension (explicit path or BRIDGE_CONFIG)
//  3. Environment variables (OPENAI_API_KEY, OPENAI_API_URL, BRIDGE_*)
//  4. File reference resolution (api_key_file)
//  5. Validation
package config

import "time"

// Config holds all configuration for the bridge.
type Config struct {
	Server      ServerConfig      `toml:"server" yaml:"server"`
	Upstream    UpstreamConfig    `toml:"upstream" yaml:"upstream"`
	Models      ModelsConfig      `toml:"models" yaml:"models"`
	ThinkFilter ThinkFilterConfig `toml:"think_filter" yaml:"think_filter"`
	Log         LogConfig         `toml:"log" yaml:"log"`
	Metrics     MetricsConfig     `toml:"metrics" yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen       string        `toml:"listen" yaml:"listen"`               // default: ":11434"
	ReadTimeout  time.Duration `toml:"read_timeout" yaml:"read_timeout"`   // default: 30s
	WriteTimeout time.Duration `toml:"write_timeout" yaml:"write_timeout"` // default: 5m
}

// UpstreamConfig holds the OpenAI-compatible API settings.
type UpstreamConfig struct {
	BaseURL    string        `toml:"base_url" yaml:"base_url"`         // default: "https://api.openai.com/v1"
	APIKey     string        `toml:"api_key" yaml:"api_key"`           // optional, absence surfaces as auth failures
	APIKeyFile string        `toml:"api_key_file" yaml:"api_key_file"` // _file variant for api_key
	Timeout    time.Duration `toml:"timeout" yaml:"timeout"`           // default: 5m
	MaxRetries int           `toml:"max_retries" yaml:"max_retries"`   // default: 2
}

// ModelsConfig holds model-list cache settings.
type ModelsConfig struct {
	CacheTTL time.Duration `toml:"cache_ttl" yaml:"cache_ttl"` // default: 24h
}

// ThinkFilterConfig holds the trigger table for think-block removal.
type ThinkFilterConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`   // default: true
	Prefixes []string `toml:"prefixes" yaml:"prefixes"` // message prefixes that trigger removal
	Suffixes []string `toml:"suffixes" yaml:"suffixes"` // message suffixes that trigger removal
}

// LogConfig holds logging settings.
type LogConfig struct {
	Debug      bool   `toml:"debug" yaml:"debug"`
	File       string `toml:"file" yaml:"file"`                 // optional rotating JSON log file
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`   // default: 10
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`   // default: 3
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"` // default: 28
}

// MetricsConfig holds Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"` // default: true
	Path    string `toml:"path" yaml:"path"`       // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Listen:       ":11434",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
		},
		Upstream: UpstreamConfig{
			BaseURL:    "https://api.openai.com/v1",
			Timeout:    5 * time.Minute,
			MaxRetries: 2,
		},
		Models: ModelsConfig{
			CacheTTL: 24 * time.Hour,
		},
		ThinkFilter: ThinkFilterConfig{
			Enabled: true,
			Prefixes: []string{
				"Review the following code",
				"Suggest a name",
				"Suggest names",
				"Write a commit message",
			},
			Suffixes: []string{
				"Suggest better names.",
				"Do not explain your reasoning.",
			},
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
