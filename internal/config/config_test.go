package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("RATE_LIMIT_MAX", "")
	t.Setenv("RATE_LIMIT_WINDOW", "")
	t.Setenv("LEADS_SHEET_NAME", "")

	cfg := Load()

	if cfg.Port != "3000" {
		t.Errorf("expected default port 3000, got %q", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.RateLimitMax != 3 {
		t.Errorf("expected default rate limit 3, got %d", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("expected default window 1m, got %s", cfg.RateLimitWindow)
	}
	if cfg.LeadsSheetName != "Leads" {
		t.Errorf("expected default sheet name Leads, got %q", cfg.LeadsSheetName)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://toolrent.example, https://www.toolrent.example")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.RateLimitMax != 5 {
		t.Errorf("expected rate limit 5, got %d", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("expected window 30s, got %s", cfg.RateLimitWindow)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://toolrent.example" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestDatabaseDSN(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		sslMode string
		want    string
	}{
		{"empty url", "", "require", ""},
		{"no ssl mode", "postgres://u:p@h/db", "", "postgres://u:p@h/db"},
		{"appends ssl mode", "postgres://u:p@h/db", "require", "postgres://u:p@h/db?sslmode=require"},
		{"joins existing query", "postgres://u:p@h/db?x=1", "require", "postgres://u:p@h/db?x=1&sslmode=require"},
		{"keeps explicit ssl mode", "postgres://u:p@h/db?sslmode=disable", "require", "postgres://u:p@h/db?sslmode=disable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{DatabaseURL: tc.url, PGSSLMode: tc.sslMode}
			if got := cfg.DatabaseDSN(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
