package httpclient

import (
	"testing"
	"time"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected 30s default timeout, got %v", cfg.Timeout)
	}

	cfg = Config{Timeout: 5 * time.Second}
	cfg.ApplyDefaults()
	if cfg.Timeout != 5*time.Second {
		t.Errorf("explicit timeout should be kept, got %v", cfg.Timeout)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"no base url", Config{Timeout: time.Second}, false},
		{"valid base url", Config{BaseURL: "https://api.example.com/v1", Timeout: time.Second}, false},
		{"relative base url", Config{BaseURL: "/api", Timeout: time.Second}, true},
		{"zero timeout", Config{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{BaseURL: "::bad"}); err == nil {
		t.Fatal("expected error for invalid base url")
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.RetryIf(ClassifyStatusCode(404, nil)) {
		t.Error("404 should not be retryable")
	}
	if !cfg.RetryIf(ClassifyStatusCode(503, nil)) {
		t.Error("503 should be retryable")
	}
}
