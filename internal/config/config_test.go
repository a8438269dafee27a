package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SECRET", "HTTP_PORT", "DATABASE_DSN", "ADMIN_USER", "ADMIN_PASSWORD", "RESET_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.HTTPPort != "6144" {
		t.Errorf("HTTPPort = %q, want 6144", cfg.HTTPPort)
	}
	if cfg.DatabaseDSN != "file:bananaphone.db" {
		t.Errorf("DatabaseDSN = %q", cfg.DatabaseDSN)
	}
	if cfg.ResetTimeout != 30*time.Second {
		t.Errorf("ResetTimeout = %v, want 30s", cfg.ResetTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RESET_TIMEOUT_SECONDS", "5")

	cfg := Load()
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.ResetTimeout != 5*time.Second {
		t.Errorf("ResetTimeout = %v, want 5s", cfg.ResetTimeout)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")
	t.Setenv("RESET_TIMEOUT_SECONDS", "zero")

	cfg := Load()
	if cfg.HTTPPort != "6144" {
		t.Errorf("HTTPPort = %q, want fallback 6144", cfg.HTTPPort)
	}
	if cfg.ResetTimeout != 30*time.Second {
		t.Errorf("ResetTimeout = %v, want fallback 30s", cfg.ResetTimeout)
	}
}
