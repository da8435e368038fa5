package config_test

import (
	"os"
	"strings"
	"testing"

	"github.com/mirrenhall/chronicler/internal/platform/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CHRONICLER_GATEWAY_URL",
		"CHRONICLER_GATEWAY_TOKEN",
		"CHRONICLER_PUBLIC_URL",
		"CHRONICLER_HTTP_ADDR",
		"CHRONICLER_MERIT_DIR",
		"CHRONICLER_LOG_LEVEL",
	} {
		// t.Setenv registers the restore; Unsetenv then actually clears
		// the variable so envDefault values apply.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.MeritDir != "./merits" {
		t.Fatalf("expected default merit dir, got %q", cfg.MeritDir)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level, got %q", cfg.LogLevel)
	}
	if cfg.GatewayURL != "" {
		t.Fatalf("expected empty gateway url, got %q", cfg.GatewayURL)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHRONICLER_GATEWAY_URL", "wss://chat.example/gateway")
	t.Setenv("CHRONICLER_GATEWAY_TOKEN", "sekrit")
	t.Setenv("CHRONICLER_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.GatewayURL != "wss://chat.example/gateway" {
		t.Fatalf("gateway url = %q", cfg.GatewayURL)
	}
	if cfg.GatewayToken != "sekrit" {
		t.Fatalf("gateway token = %q", cfg.GatewayToken)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
}

type envTestConfig struct {
	Port int `env:"CHRONICLER_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := config.ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("CHRONICLER_TEST_PORT", "not-an-int")

	err := config.ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
