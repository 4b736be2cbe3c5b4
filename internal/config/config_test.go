package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTLMinutes != 60 {
		t.Fatalf("ttl = %d, want 60", cfg.Auth.TokenTTLMinutes)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Fatalf("bcrypt cost = %d, want 10", cfg.Auth.BcryptCost)
	}
	if cfg.Database.DSN != "" {
		t.Fatalf("dsn = %q, want empty", cfg.Database.DSN)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL_MINUTES", "15")
	t.Setenv("DATABASE_URL", "postgres://localhost/commerce")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTLMinutes != 15 {
		t.Fatalf("ttl = %d, want 15", cfg.Auth.TokenTTLMinutes)
	}
	if cfg.Database.DSN != "postgres://localhost/commerce" {
		t.Fatalf("dsn = %q", cfg.Database.DSN)
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("BCRYPT_COST", "lots")
	if got := getEnvInt("BCRYPT_COST", 10); got != 10 {
		t.Fatalf("got %d, want fallback 10", got)
	}
}
