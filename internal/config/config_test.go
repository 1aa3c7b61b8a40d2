package config

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func baseConfig() *Config {
	return &Config{
		SessionSecret:      "secret",
		BcryptCost:         bcrypt.DefaultCost,
		Port:               "8080",
		GinMode:            "debug",
		DatabasePath:       "todolist.db",
		SessionMaxAge:      12 * time.Hour,
		SessionIdleTimeout: 30 * time.Minute,
	}
}

func TestValidateDebugMode(t *testing.T) {
	cfg := baseConfig()
	cfg.SessionSecret = ""
	// 開発モードでは署名鍵は必須ではない
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestValidateReleaseRequiresSecret(t *testing.T) {
	cfg := baseConfig()
	cfg.GinMode = "release"
	cfg.SessionSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing SESSION_SECRET in release mode")
	}
}

func TestValidateBcryptCostBounds(t *testing.T) {
	cfg := baseConfig()
	cfg.BcryptCost = bcrypt.MaxCost + 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range bcrypt cost")
	}

	cfg.BcryptCost = bcrypt.MinCost
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestSessionMaxAgeSeconds(t *testing.T) {
	cfg := baseConfig()
	if got := cfg.SessionMaxAgeSeconds(); got != 12*60*60 {
		t.Fatalf("SessionMaxAgeSeconds = %d, want %d", got, 12*60*60)
	}
}
