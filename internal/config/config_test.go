package config

import "testing"

func TestLoadServerConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("DEFAULT_USER_EMAIL", "")
	t.Setenv("SUPER_ADMIN_EMAIL", "")
	t.Setenv("RATE_LIMIT_REQUESTS", "")
	t.Setenv("RATE_LIMIT_PERIOD", "")

	cfg := LoadServerConfig()

	if cfg.Environment != EnvDevelopment {
		t.Errorf("expected development environment, got %q", cfg.Environment)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.DefaultUserEmail != "" {
		t.Errorf("expected empty default user email, got %q", cfg.DefaultUserEmail)
	}
	if cfg.RateLimitRequests != 100 {
		t.Errorf("expected default rate limit 100, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitPeriod != "1m" {
		t.Errorf("expected default rate limit period 1m, got %q", cfg.RateLimitPeriod)
	}
}

func TestLoadServerConfigFromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_USER_EMAIL", "  ops@example.com  ")
	t.Setenv("SUPER_ADMIN_EMAIL", "boss@example.com")
	t.Setenv("RATE_LIMIT_REQUESTS", "250")
	t.Setenv("RATE_LIMIT_PERIOD", "30s")

	cfg := LoadServerConfig()

	if cfg.Environment != EnvProduction {
		t.Errorf("expected production environment, got %q", cfg.Environment)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.DefaultUserEmail != "ops@example.com" {
		t.Errorf("expected trimmed default user email, got %q", cfg.DefaultUserEmail)
	}
	if cfg.SuperAdminEmail != "boss@example.com" {
		t.Errorf("expected super admin email, got %q", cfg.SuperAdminEmail)
	}
	if cfg.RateLimitRequests != 250 {
		t.Errorf("expected rate limit 250, got %d", cfg.RateLimitRequests)
	}
}

func TestLoadServerConfigInvalidValues(t *testing.T) {
	t.Setenv("ENV", "nonsense")
	t.Setenv("PORT", "not-a-number")
	t.Setenv("RATE_LIMIT_REQUESTS", "-5")

	cfg := LoadServerConfig()

	if cfg.Environment != EnvDevelopment {
		t.Errorf("expected fallback to development, got %q", cfg.Environment)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected fallback port 8080, got %d", cfg.Port)
	}
	if cfg.RateLimitRequests != 100 {
		t.Errorf("expected fallback rate limit 100, got %d", cfg.RateLimitRequests)
	}
}
