package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/marketweb/bootstrap"
	"github.com/kbukum/marketweb/config"
	"github.com/kbukum/marketweb/locale"
	"github.com/kbukum/marketweb/logger"
	"github.com/kbukum/marketweb/query"
)

func validConfig() *AppConfig {
	cfg := &AppConfig{}
	cfg.Providers.Upstream.BaseURL = "https://api.example.com"
	cfg.ApplyDefaults()
	return cfg
}

func TestShippedConfigLoads(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, config.LoadConfig(serviceName, &cfg,
		config.WithConfigFile("config.yml"),
		config.WithEnvPrefix("MARKETWEB_TEST_UNUSED"),
	))
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "marketweb", cfg.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "en", cfg.Locale.Default)
	assert.Equal(t, []string{"en"}, cfg.Locale.Supported)
	assert.Equal(t, "/providers", cfg.Providers.Path)
	assert.Equal(t, 5*time.Minute, cfg.Providers.StaleTime)
	assert.Equal(t, 10*time.Minute, cfg.Providers.GCTime)
	assert.Equal(t, 1, cfg.Providers.RetryCount())
	assert.Equal(t, []string{"category", "city", "q", "page"}, cfg.Providers.FilterKeys)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Observability.Enabled)
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, serviceName, cfg.Name)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "dev", cfg.Version)
	assert.Equal(t, "en", cfg.Locale.Default)
	assert.Equal(t, time.Minute, cfg.Cache.GCInterval)
	assert.Equal(t, query.DefaultMaxEntries, cfg.Cache.MaxEntries)
	assert.Equal(t, 1, cfg.Providers.RetryCount())
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"missing upstream", func(c *AppConfig) { c.Providers.Upstream.BaseURL = "" }},
		{"bad default locale", func(c *AppConfig) { c.Locale.Default = "not a tag" }},
		{"bad supported locale", func(c *AppConfig) { c.Locale.Supported = []string{"en", "??"} }},
		{"bad environment", func(c *AppConfig) { c.Environment = "qa" }},
		{"bad port", func(c *AppConfig) { c.Server.Port = 70000 }},
		{"redis without addr", func(c *AppConfig) { c.Redis.Enabled = true; c.Redis.Addr = "" }},
		{"sample rate", func(c *AppConfig) { c.Observability.SampleRate = 2 }},
		{"negative retries", func(c *AppConfig) { n := -1; c.Providers.Retries = &n }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestShippedConfigRetriesZero(t *testing.T) {
	t.Setenv("MARKETWEB_RETRYTEST_PROVIDERS_RETRIES", "0")
	var cfg AppConfig
	require.NoError(t, config.LoadConfig(serviceName, &cfg,
		config.WithConfigFile("config.yml"),
		config.WithEnvPrefix("MARKETWEB_RETRYTEST"),
	))
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0, cfg.Providers.RetryCount(), "explicit zero disables retrying")
}

func TestLocaleSet(t *testing.T) {
	lc := LocaleConfig{Default: "en", Supported: []string{"de", "en"}}
	set, err := lc.Set()
	require.NoError(t, err)

	assert.Equal(t, locale.Locale("en"), set.Default())
	assert.Equal(t, []locale.Locale{"en", "de"}, set.Supported())
}

func TestWire(t *testing.T) {
	app, err := bootstrap.NewApp(validConfig(), bootstrap.WithLogger(logger.Nop()))
	require.NoError(t, err)
	require.NoError(t, wire(app))

	for _, name := range []string{"observability", "query-cache", "http-server"} {
		assert.NotNil(t, app.Components.Get(name), name)
	}
	assert.Nil(t, app.Components.Get("redis"), "redis stays out when disabled")
}
