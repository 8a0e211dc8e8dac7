package proxy

import (
	"time"

	"github.com/papercomputeco/bridge/pkg/config"
	"github.com/papercomputeco/bridge/pkg/thinkfilter"
	"github.com/papercomputeco/bridge/pkg/upstream"
)

// Config is the proxy server configuration.
type Config struct {
	// Address to listen on (e.g., ":11434")
	ListenAddr string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Upstream OpenAI-compatible API
	Upstream upstream.Config

	// ModelCacheTTL is how long the upstream model list is reused.
	ModelCacheTTL time.Duration

	// ThinkFilter decides which conversations get think blocks stripped.
	ThinkFilter ThinkFilter

	// MetricsPath serves Prometheus metrics when non-empty.
	MetricsPath string
}

// ThinkFilter is the think-block trigger configuration.
type ThinkFilter struct {
	Enabled bool
	Rule    thinkfilter.Rule
}

// Policy builds the trigger table for this configuration.
func (t ThinkFilter) Policy() *thinkfilter.Policy {
	if !t.Enabled {
		return thinkfilter.NewPolicy()
	}
	return thinkfilter.StripPolicy(t.Rule)
}

// ThinkFilterFrom extracts the think filter section of a loaded config.
func ThinkFilterFrom(cfg *config.Config) ThinkFilter {
	return ThinkFilter{
		Enabled: cfg.ThinkFilter.Enabled,
		Rule: thinkfilter.Rule{
			Prefixes: cfg.ThinkFilter.Prefixes,
			Suffixes: cfg.ThinkFilter.Suffixes,
		},
	}
}

// ConfigFrom maps a loaded config onto the proxy configuration.
func ConfigFrom(cfg *config.Config) Config {
	c := Config{
		ListenAddr:   cfg.Server.Listen,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Upstream: upstream.Config{
			BaseURL:    cfg.Upstream.BaseURL,
			APIKey:     cfg.Upstream.APIKey,
			Timeout:    cfg.Upstream.Timeout,
			MaxRetries: cfg.Upstream.MaxRetries,
		},
		ModelCacheTTL: cfg.Models.CacheTTL,
		ThinkFilter:   ThinkFilterFrom(cfg),
	}
	if cfg.Metrics.Enabled {
		c.MetricsPath = cfg.Metrics.Path
	}
	return c
}
