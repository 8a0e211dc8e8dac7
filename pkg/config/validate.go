package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidationError collects every invalid field found by Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks the configuration for values the bridge cannot run with.
// A missing API key is deliberately allowed.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Listen == "" {
		problems = append(problems, "server.listen is required")
	}
	if c.Server.ReadTimeout < 0 {
		problems = append(problems, "server.read_timeout must not be negative")
	}
	if c.Server.WriteTimeout < 0 {
		problems = append(problems, "server.write_timeout must not be negative")
	}

	if c.Upstream.BaseURL == "" {
		problems = append(problems, "upstream.base_url is required")
	} else if u, err := url.Parse(c.Upstream.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("upstream.base_url %q is not an absolute URL", c.Upstream.BaseURL))
	}
	if c.Upstream.Timeout <= 0 {
		problems = append(problems, "upstream.timeout must be positive")
	}
	if c.Upstream.MaxRetries < 0 {
		problems = append(problems, "upstream.max_retries must not be negative")
	}

	if c.Models.CacheTTL <= 0 {
		problems = append(problems, "models.cache_ttl must be positive")
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, "metrics.path must start with /")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
