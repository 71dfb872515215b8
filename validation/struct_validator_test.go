package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/marketweb/errors"
)

type switchRequest struct {
	Locale   string `json:"locale" validate:"required,bcp47_language_tag"`
	Redirect string `json:"redirect" validate:"omitempty,startswith=/"`
}

type upstream struct {
	BaseURL string `mapstructure:"base_url" validate:"required,http_url"`
	Retries int    `mapstructure:"retries" validate:"min=0,max=3"`
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(switchRequest{Locale: "en", Redirect: "/providers"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Required(t *testing.T) {
	err := Validate(switchRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "locale: is required") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 1 || fields[0].Field != "locale" {
		t.Errorf("unexpected field details: %#v", appErr.Details["fields"])
	}
}

func TestValidate_UsesMapstructureNames(t *testing.T) {
	err := Validate(upstream{BaseURL: "not a url", Retries: 5})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "base_url: must be a valid URL") {
		t.Errorf("expected base_url message, got %q", msg)
	}
	if !strings.Contains(msg, "retries: must be at most 3") {
		t.Errorf("expected retries message, got %q", msg)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"BaseURL":   "base_u_r_l",
		"StaleTime": "stale_time",
		"locale":    "locale",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
