package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFileDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_SECRET", "local-secret")
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if cfg.AppPort != "9090" {
		t.Fatalf("expected env port 9090, got %s", cfg.AppPort)
	}
	if cfg.DatabaseDriver != "postgres" {
		t.Fatalf("expected default driver postgres, got %s", cfg.DatabaseDriver)
	}
	if cfg.TokenExpires != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %s", cfg.TokenExpires)
	}
	if cfg.CacheTTL != time.Minute {
		t.Fatalf("expected 60s cache ttl, got %s", cfg.CacheTTL)
	}
}

func TestLoadFileYamlThenEnv(t *testing.T) {
	dir := t.TempDir()
	configYAML := strings.TrimSpace(`
app:
  port: "7000"
database:
  driver: sqlite
  url: catalog.db
redis:
  url: redis://localhost:6379/2
  ttl_seconds: 5
uploads:
  dir: /var/uploads
`)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATABASE_URL", "override.db")
	t.Setenv("JWT_SECRET", "local-secret")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if cfg.AppPort != "7000" {
		t.Fatalf("expected yaml port 7000, got %s", cfg.AppPort)
	}
	if cfg.DatabaseDriver != "sqlite" {
		t.Fatalf("expected yaml driver sqlite, got %s", cfg.DatabaseDriver)
	}
	if cfg.DatabaseURL != "override.db" {
		t.Fatalf("expected env to win over yaml, got %s", cfg.DatabaseURL)
	}
	if cfg.RedisURL != "redis://localhost:6379/2" {
		t.Fatalf("unexpected redis url %s", cfg.RedisURL)
	}
	if cfg.CacheTTL != 5*time.Second {
		t.Fatalf("expected 5s cache ttl, got %s", cfg.CacheTTL)
	}
	if cfg.UploadDir != "/var/uploads" {
		t.Fatalf("unexpected upload dir %s", cfg.UploadDir)
	}
}

func TestLoadFileRequiresKeySource(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "")
	if _, err := LoadFile(""); err == nil {
		t.Fatalf("expected error when no jwt key source is configured")
	}
}

func TestLoadFileHasNoBuiltInSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/etc/catalog/provider.pem")

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if cfg.JWTSecret != "" {
		t.Fatalf("expected no HMAC secret when only the provider key is configured, got %q", cfg.JWTSecret)
	}
	if cfg.JWTPublicKeyPath != "/etc/catalog/provider.pem" {
		t.Fatalf("unexpected public key path %s", cfg.JWTPublicKeyPath)
	}
}

func TestLoadFileMissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
