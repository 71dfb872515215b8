package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newJSONLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: FormatJSON}, "marketweb", buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, line)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestInfoWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "info")

	l.Info("listing refreshed", Fields("count", 3, FieldLocale, "en"))

	m := decodeLine(t, &buf)
	if m["message"] != "listing refreshed" {
		t.Errorf("unexpected message %v", m["message"])
	}
	if m["service"] != "marketweb" {
		t.Errorf("expected service field, got %v", m["service"])
	}
	if m[FieldLocale] != "en" {
		t.Errorf("expected locale field, got %v", m[FieldLocale])
	}
	if m["count"] != float64(3) {
		t.Errorf("expected count=3, got %v", m["count"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "warn")

	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn output, got %q", buf.String())
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "loud")

	l.Debug("hidden")
	l.Info("visible")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug should be filtered at the fallback level")
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Error("info should pass at the fallback level")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "info").WithComponent("query")

	l.Info("hit")

	m := decodeLine(t, &buf)
	if m[FieldComponent] != "query" {
		t.Errorf("expected component=query, got %v", m[FieldComponent])
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithLocale(ctx, "en")

	newJSONLogger(&buf, "info").WithContext(ctx).Info("page")

	m := decodeLine(t, &buf)
	if m[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id, got %v", m[FieldRequestID])
	}
	if m[FieldLocale] != "en" {
		t.Errorf("expected locale, got %v", m[FieldLocale])
	}
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext = %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	newJSONLogger(&buf, "info").WithError(errors.New("boom")).Error("failed")

	m := decodeLine(t, &buf)
	if m["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", m["error"])
	}
}

func TestFields(t *testing.T) {
	f := Fields("a", 1, "b", "two", 3, "skipped", "odd")
	if len(f) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(f), f)
	}
	if f["a"] != 1 || f["b"] != "two" {
		t.Errorf("unexpected fields: %v", f)
	}
}

func TestErrorFields(t *testing.T) {
	f := ErrorFields("fetch", errors.New("down"))
	if f["operation"] != "fetch" || f[FieldError] != "down" {
		t.Errorf("unexpected fields: %v", f)
	}
	if _, ok := ErrorFields("fetch", nil)[FieldError]; ok {
		t.Error("nil error should not add an error field")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"json", Config{Format: FormatJSON}, false},
		{"bad level", Config{Level: "verbose"}, true},
		{"bad format", Config{Format: "xml"}, true},
		{"bad output", Config{Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGlobalLogger(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	var buf bytes.Buffer
	SetGlobalLogger(newJSONLogger(&buf, "info"))
	WithComponent("global").Info("hello")

	if !strings.Contains(buf.String(), `"component":"global"`) {
		t.Errorf("expected global logger output, got %q", buf.String())
	}
}
