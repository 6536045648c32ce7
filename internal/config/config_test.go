package config

import (
	"testing"

	"borrowbee/pkg/logger"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(logger.NewNop()); err == nil {
		t.Fatal("startup must fail when JWT_SECRET is unset")
	}
}

func TestLoadAcceptsConfiguredSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load(logger.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.Secret != "test-secret" {
		t.Fatalf("secret = %q, want test-secret", cfg.Auth.Secret)
	}
	if cfg.Catalog.PageSize != 12 {
		t.Fatalf("default page size = %d, want 12", cfg.Catalog.PageSize)
	}
}
