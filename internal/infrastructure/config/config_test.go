package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func baseEnv() map[string]string {
	return map[string]string{
		"JWT_SECRET":        testSecret,
		"DB_DRIVER":         "postgres",
		"POSTGRES_USER":     "auth",
		"POSTGRES_PASSWORD": "pw",
		"POSTGRES_DB":       "auth",
	}
}

func loadWith(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return load(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadWith(t, baseEnv())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected port: %s", cfg.Port)
	}
	if cfg.JWT.Algorithm != "HS256" {
		t.Fatalf("unexpected algorithm: %s", cfg.JWT.Algorithm)
	}
	if cfg.TokenTTL() != 30*time.Minute {
		t.Fatalf("unexpected ttl: %s", cfg.TokenTTL())
	}
	if cfg.Throttle.MaxAttempts != 10 || cfg.Throttle.Window != 15*time.Minute {
		t.Fatalf("unexpected throttle defaults: %+v", cfg.Throttle)
	}
}

func TestLoad_MissingSecretIsFatal(t *testing.T) {
	env := baseEnv()
	delete(env, "JWT_SECRET")
	if _, err := loadWith(t, env); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestLoad_WeakSecretIsFatal(t *testing.T) {
	env := baseEnv()
	env["JWT_SECRET"] = "short"
	if _, err := loadWith(t, env); err == nil {
		t.Fatalf("expected error for weak secret")
	}
}

func TestLoad_UnsupportedAlgorithm(t *testing.T) {
	env := baseEnv()
	env["JWT_ALGORITHM"] = "RS256"
	if _, err := loadWith(t, env); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
}

func TestLoad_PostgresCredentialsRequired(t *testing.T) {
	env := baseEnv()
	delete(env, "POSTGRES_PASSWORD")
	if _, err := loadWith(t, env); err == nil {
		t.Fatalf("expected error for missing postgres credentials")
	}
}

func TestLoad_MemoryDriverNeedsNoStoreConfig(t *testing.T) {
	env := map[string]string{
		"JWT_SECRET": testSecret,
		"DB_DRIVER":  "memory",
	}
	if _, err := loadWith(t, env); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	env := baseEnv()
	env["DB_DRIVER"] = "sqlite"
	if _, err := loadWith(t, env); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
