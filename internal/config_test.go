package internal

import (
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.App.HTTP.Address() != ":8080" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
	if cfg.Auth.AuthEnabled() {
		t.Error("auth should be disabled by default")
	}
}

func TestHTTPConfigValidation(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		c := HTTPConfig{Port: port}
		if err := c.Validate(); err == nil {
			t.Errorf("port %d accepted", port)
		}
	}
}

func TestAuthConfigValidation(t *testing.T) {
	c := AuthConfig{}
	if err := c.Validate(); err != nil {
		t.Fatalf("empty auth config invalid: %v", err)
	}
	if c.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", c.Mode, AuthModeDisabled)
	}

	c = AuthConfig{Mode: AuthModeToken}
	if err := c.Validate(); err == nil {
		t.Error("token mode without token accepted")
	}

	c = AuthConfig{Mode: AuthModeToken, Token: "secret"}
	if err := c.Validate(); err != nil {
		t.Fatalf("token mode rejected: %v", err)
	}
	if !c.AuthEnabled() {
		t.Error("AuthEnabled() = false for token mode")
	}

	c = AuthConfig{Mode: "basic"}
	if err := c.Validate(); err == nil {
		t.Error("unknown mode accepted")
	}
}

func TestCorpusAndSQLiteRequired(t *testing.T) {
	if err := (&CorpusConfig{}).Validate(); err == nil {
		t.Error("empty corpus path accepted")
	}
	if err := (&SQLiteConfig{}).Validate(); err == nil {
		t.Error("empty sqlite path accepted")
	}
}
