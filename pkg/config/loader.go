package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from the layered set of sources.
// An empty configPath falls back to BRIDGE_CONFIG; no file at all is fine.
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	if path := DiscoverFile(configPath); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// DiscoverFile returns the config file to load: the explicit path, else
// BRIDGE_CONFIG, else nothing.
func DiscoverFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	return os.Getenv("BRIDGE_CONFIG")
}

// loadFile parses a TOML or YAML file into cfg. Fields absent from the file
// keep their current values.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml", "":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// applyEnvOverrides maps environment variables onto config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Upstream.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("BRIDGE_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("BRIDGE_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Debug = debug
		}
	}
	if v := os.Getenv("BRIDGE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// resolveFileReferences reads _file fields into their value fields when the
// value is not already set.
func resolveFileReferences(cfg *Config) error {
	if cfg.Upstream.APIKeyFile != "" && cfg.Upstream.APIKey == "" {
		val, err := readSecretFile(cfg.Upstream.APIKeyFile)
		if err != nil {
			return fmt.Errorf("upstream.api_key_file: %w", err)
		}
		cfg.Upstream.APIKey = val
	}
	return nil
}

func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
