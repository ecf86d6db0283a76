package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("port: %s", cfg.Server.Port)
	}
	if cfg.Store.DBPath != "autopilot.db" {
		t.Errorf("db path: %s", cfg.Store.DBPath)
	}
	if cfg.Autopilot.Interval != time.Second {
		t.Errorf("interval: %s", cfg.Autopilot.Interval)
	}
	if cfg.Autopilot.PreviousWindow != 3 || cfg.Autopilot.ContextBytes != 2000 {
		t.Errorf("autopilot: %+v", cfg.Autopilot)
	}
	if cfg.Gemini.APIKey != "" {
		t.Errorf("gemini key should default empty, got %q", cfg.Gemini.APIKey)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GEMINI_API_KEY", "k-123")
	t.Setenv("AUTOPILOT_INTERVAL_MS", "250")
	t.Setenv("META_FACEBOOK_PAGE_ID", "page-1")

	cfg := Load()
	if cfg.Server.Port != "9000" {
		t.Errorf("port: %s", cfg.Server.Port)
	}
	if cfg.Gemini.APIKey != "k-123" {
		t.Errorf("gemini key: %s", cfg.Gemini.APIKey)
	}
	if cfg.Autopilot.Interval != 250*time.Millisecond {
		t.Errorf("interval: %s", cfg.Autopilot.Interval)
	}
	if cfg.Meta.FacebookPageID != "page-1" {
		t.Errorf("meta page: %s", cfg.Meta.FacebookPageID)
	}
}

func TestGetEnvInt_Invalid(t *testing.T) {
	t.Setenv("AUTOPILOT_CONTEXT_BYTES", "not-a-number")
	cfg := Load()
	if cfg.Autopilot.ContextBytes != 2000 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.Autopilot.ContextBytes)
	}
}
