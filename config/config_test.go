package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/marketweb/logger"
)

type upstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type testConfig struct {
	ServiceConfig `mapstructure:",squash"`
	Upstream      upstreamConfig `mapstructure:"upstream"`
}

// memFS is an in-memory FileSystem.
type memFS struct {
	files  map[string]bool
	loaded []string
}

func (m *memFS) Exists(path string) bool { return m.files[filepath.Clean(path)] }

func (m *memFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	cfg := ServiceConfig{Name: "marketweb"}
	cfg.ApplyDefaults()

	if cfg.Environment != "development" {
		t.Errorf("expected development, got %q", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("expected debug=true for development")
	}
	if cfg.Logging.ServiceName != "marketweb" {
		t.Errorf("expected logging service name to follow name, got %q", cfg.Logging.ServiceName)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging defaults applied, got level %q", cfg.Logging.Level)
	}

	prod := ServiceConfig{Name: "marketweb", Environment: "production"}
	prod.ApplyDefaults()
	if prod.Debug {
		t.Error("expected debug=false for production")
	}
	if !prod.IsProduction() {
		t.Error("expected IsProduction")
	}
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ServiceConfig
		errMsg string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "name is required"},
		{"bad environment", ServiceConfig{Name: "svc", Environment: "qa"}, "environment must be one of"},
		{"bad logging", ServiceConfig{Name: "svc", Environment: "production", Logging: loggingLevel("loud")}, "logging:"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.Logging.ApplyDefaults()
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Fatalf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
name: marketweb
environment: staging
upstream:
  base_url: http://backend:8080
  timeout: 5s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	if err := LoadConfig("marketweb", &cfg, WithConfigFile(path), WithEnvPrefix("MWTEST")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "marketweb" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config: %+v", cfg.ServiceConfig)
	}
	if cfg.Upstream.BaseURL != "http://backend:8080" {
		t.Errorf("unexpected base url %q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.Timeout != 5*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Upstream.Timeout)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("name: marketweb\nupstream:\n  base_url: http://file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MWTEST_UPSTREAM_BASE_URL", "http://env")
	t.Setenv("UPSTREAM_BASE_URL", "http://unprefixed")

	var cfg testConfig
	if err := LoadConfig("marketweb", &cfg, WithConfigFile(path), WithEnvPrefix("MWTEST")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Upstream.BaseURL != "http://env" {
		t.Errorf("expected prefixed env override, got %q", cfg.Upstream.BaseURL)
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("name: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	var cfg testConfig
	if err := LoadConfig("marketweb", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestResolveFiles(t *testing.T) {
	fs := &memFS{files: map[string]bool{
		filepath.Clean("cmd/marketweb/config.yml"): true,
		filepath.Clean(".env"):                     true,
	}}

	got := ResolveFiles("marketweb", LoaderConfig{FileSystem: fs})
	if got.ConfigFile != filepath.Join("cmd", "marketweb", "config.yml") {
		t.Errorf("unexpected config file %q", got.ConfigFile)
	}
	if got.EnvFile != ".env" {
		t.Errorf("unexpected env file %q", got.EnvFile)
	}

	explicit := ResolveFiles("marketweb", LoaderConfig{FileSystem: fs, ConfigFile: "/etc/mw.yml"})
	if explicit.ConfigFile != "/etc/mw.yml" {
		t.Errorf("explicit path should win, got %q", explicit.ConfigFile)
	}
}

func TestKeyVariants(t *testing.T) {
	got := keyVariants("UPSTREAM_BASE_URL")
	want := map[string]bool{
		"upstream_base_url": true,
		"upstream.base.url": true,
		"upstream.base_url": true,
		"upstream_base.url": true,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d variants, got %v", len(want), got)
	}
	for _, v := range got {
		if !want[v] {
			t.Errorf("unexpected variant %q", v)
		}
	}

	if single := keyVariants("NAME"); len(single) != 1 || single[0] != "name" {
		t.Errorf("unexpected single-part variants %v", single)
	}
}

func loggingLevel(level string) logger.Config {
	return logger.Config{Level: level}
}

func TestLoadConfigEnvFileThroughFileSystem(t *testing.T) {
	fs := &memFS{files: map[string]bool{"deploy/.env": true}}

	var cfg testConfig
	if err := LoadConfig("marketweb", &cfg, WithFileSystem(fs), WithEnvFile("deploy/.env")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(fs.loaded) != 1 || fs.loaded[0] != "deploy/.env" {
		t.Errorf("expected the explicit env file to be loaded, got %v", fs.loaded)
	}
}
