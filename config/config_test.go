package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("CINECONNECT_API_URL", "")
	t.Setenv("CINECONNECT_TIMEOUT", "")
	t.Setenv("CINECONNECT_RESERVATIONS_FAIL_OPEN", "")

	cfg := FromEnv()
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("expected default api url, got %q", cfg.APIURL)
	}
	if cfg.Timeout != defaultTimeout {
		t.Fatalf("expected default timeout, got %s", cfg.Timeout)
	}
	if cfg.FailOpenReservations {
		t.Fatal("expected reservations to fail closed by default")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("CINECONNECT_API_URL", "https://cine.example.com/api/")
	t.Setenv("CINECONNECT_TIMEOUT", "3s")
	t.Setenv("CINECONNECT_LOG_LEVEL", "DEBUG")
	t.Setenv("CINECONNECT_RESERVATIONS_FAIL_OPEN", "true")

	cfg := FromEnv()
	if cfg.APIURL != "https://cine.example.com/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIURL)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.Timeout)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected lower-cased level, got %q", cfg.LogLevel)
	}
	if !cfg.FailOpenReservations {
		t.Fatal("expected fail-open to be enabled")
	}
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CINECONNECT_TIMEOUT", "soon")
	t.Setenv("CINECONNECT_RESERVATIONS_FAIL_OPEN", "maybe")

	cfg := FromEnv()
	if cfg.Timeout != defaultTimeout {
		t.Fatalf("expected default timeout, got %s", cfg.Timeout)
	}
	if cfg.FailOpenReservations {
		t.Fatal("expected invalid bool to keep default")
	}
}
