package providers

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/marketweb/httpclient"
)

// Config configures the provider listing.
type Config struct {
	// Upstream is the API the listing is read from.
	Upstream httpclient.Config `yaml:"upstream" mapstructure:"upstream"`
	// Path is the listing endpoint relative to the upstream base URL.
	Path string `yaml:"path" mapstructure:"path"`
	// StaleTime is how long a listing counts as fresh.
	StaleTime time.Duration `yaml:"stale_time" mapstructure:"stale_time"`
	// GCTime is how long an unread listing stays cached.
	GCTime time.Duration `yaml:"gc_time" mapstructure:"gc_time"`
	// Retries is the number of extra attempts for retryable failures. Unset
	// means one retry; zero disables retrying.
	Retries *int `yaml:"retries" mapstructure:"retries"`
	// FilterKeys lists the query parameters forwarded to the upstream as
	// listing filters. Every other parameter is dropped before it reaches the
	// cache key.
	FilterKeys []string `yaml:"filter_keys" mapstructure:"filter_keys"`
}

// DefaultFilterKeys are the listing filters accepted when none are configured.
var DefaultFilterKeys = []string{"category", "city", "q", "page"}

// RetryCount returns the configured retry count, or the default of one.
func (c Config) RetryCount() int {
	if c.Retries == nil {
		return 1
	}
	return *c.Retries
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	c.Upstream.ApplyDefaults()
	if c.Path == "" {
		c.Path = "/providers"
	}
	if c.StaleTime <= 0 {
		c.StaleTime = 5 * time.Minute
	}
	if c.GCTime <= 0 {
		c.GCTime = 10 * time.Minute
	}
	if c.Retries == nil {
		n := 1
		c.Retries = &n
	}
	if len(c.FilterKeys) == 0 {
		c.FilterKeys = append([]string(nil), DefaultFilterKeys...)
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("providers: upstream.base_url is required")
	}
	if err := c.Upstream.Validate(); err != nil {
		return fmt.Errorf("providers: %w", err)
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("providers: path %q must start with /", c.Path)
	}
	if c.RetryCount() < 0 {
		return fmt.Errorf("providers: retries must not be negative, got %d", c.RetryCount())
	}
	for _, k := range c.FilterKeys {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("providers: filter_keys must not contain empty names")
		}
	}
	if c.GCTime < c.StaleTime {
		return fmt.Errorf("providers: gc_time (%s) must not be shorter than stale_time (%s)", c.GCTime, c.StaleTime)
	}
	return nil
}
