package internal

import (
	"strings"
	"testing"

	"github.com/starford/naudiz/internal/api"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != api.AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, api.AuthModeDisabled)
	}
}

func TestAuthConfig_JWTModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "jwt", Secret: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("jwt mode with secret should pass: %v", err)
	}
}

func TestAuthConfig_JWTModeEmptySecret(t *testing.T) {
	cfg := AuthConfig{Mode: "jwt"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("jwt mode with empty secret should fail")
	}
	if !strings.Contains(err.Error(), "secret is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Secret: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestRetentionConfig(t *testing.T) {
	cfg := RetentionConfig{Days: 7, WarnDays: 6}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("stock retention should pass: %v", err)
	}

	cfg = RetentionConfig{Days: 0, WarnDays: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero days should fail")
	}

	cfg = RetentionConfig{Days: 7, WarnDays: 7}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("warn_days at or above days should fail")
	}
	if !strings.Contains(err.Error(), "warn_days") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHTTPConfig(t *testing.T) {
	cfg := HTTPConfig{Port: 8080}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid port should pass: %v", err)
	}
	if cfg.Address() != ":8080" {
		t.Errorf("address = %q", cfg.Address())
	}

	cfg = HTTPConfig{Port: 70000}
	if err := cfg.Validate(); err == nil {
		t.Fatal("out-of-range port should fail")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Retention.Days != 7 || cfg.Retention.WarnDays != 6 {
		t.Errorf("retention defaults = %+v", cfg.Retention)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "jwt"
	cfg.Auth.Secret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
