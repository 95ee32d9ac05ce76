package config

import (
	"testing"
	"time"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "journal")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "journal")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "30")
	t.Setenv("BCRYPT_COST", "10")

	cfg := Load()
	if cfg.Port != "8080" || cfg.AccessTTLMin != 15 || cfg.RefreshTTLDays != 30 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.BaseURL != "http://localhost:3000" {
		t.Fatalf("BaseURL default = %q", cfg.BaseURL)
	}
	if cfg.SMTPFrom != "noreply@localhost" {
		t.Fatalf("SMTPFrom default = %q", cfg.SMTPFrom)
	}
}

func TestCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()
	if !cfg.Enabled {
		t.Fatal("cache should default to enabled")
	}
	if !cfg.Methods["GET"] {
		t.Fatalf("GET not cacheable by default: %v", cfg.Methods)
	}
	if cfg.KeyStrategy != "user_route_query" {
		t.Fatalf("KeyStrategy = %q", cfg.KeyStrategy)
	}
	if cfg.TTL != 30*time.Second {
		t.Fatalf("TTL = %s", cfg.TTL)
	}
}

func TestRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	cfg := LoadRateLimitConfig()
	if cfg.Capacity < 1 || cfg.RefillTokens < 1 {
		t.Fatalf("limits not clamped: %+v", cfg)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Fatalf("TTL %s shorter than five refill intervals", cfg.TTL)
	}
}
