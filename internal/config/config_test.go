package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults() failed validation: %v", err)
	}

	if math.Abs(cfg.Monitor.AlertThreshold-0.60) > 1e-9 {
		t.Errorf("AlertThreshold = %v, want 0.60", cfg.Monitor.AlertThreshold)
	}
	if cfg.Monitor.PollInterval.Duration != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.Monitor.PollInterval.Duration)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis enabled by default")
	}
	if cfg.Mode != "monitor" {
		t.Errorf("Mode = %q, want monitor", cfg.Mode)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "turbo"
	cfg.Monitor.AlertThreshold = 1.5
	cfg.Clob.ApiKey = "only-the-key"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate returned nil for invalid config")
	}
	msg := err.Error()
	for _, want := range []string{"unknown mode", "alert_threshold", "api_secret"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestValidateRedisOnlyWhenEnabled(t *testing.T) {
	cfg := Defaults()
	cfg.Redis.Addr = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled redis with empty addr should validate, got %v", err)
	}

	cfg.Redis.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("enabled redis with empty addr should fail validation")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if cfg.Polymarket.GammaHost != Defaults().Polymarket.GammaHost {
		t.Errorf("GammaHost = %q, want default", cfg.Polymarket.GammaHost)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
mode = "discover"

[monitor]
alert_threshold = 0.70
poll_interval = "10s"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Mode != "discover" {
		t.Errorf("Mode = %q, want discover", cfg.Mode)
	}
	if math.Abs(cfg.Monitor.AlertThreshold-0.70) > 1e-9 {
		t.Errorf("AlertThreshold = %v, want 0.70", cfg.Monitor.AlertThreshold)
	}
	if cfg.Monitor.PollInterval.Duration != 10*time.Second {
		t.Errorf("PollInterval = %v, want 10s", cfg.Monitor.PollInterval.Duration)
	}
	// Untouched sections keep their defaults.
	if cfg.Polymarket.ChainID != 137 {
		t.Errorf("ChainID = %d, want 137", cfg.Polymarket.ChainID)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CRICKETWATCH_MONITOR_ALERT_THRESHOLD", "0.75")
	t.Setenv("CRICKETWATCH_MODE", "inspect")
	t.Setenv("CRICKETWATCH_DISCOVERY_REFERENCE_IDS", "100, 200 ,300")
	t.Setenv("ODDS_API_KEY", "legacy-key")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	if math.Abs(cfg.Monitor.AlertThreshold-0.75) > 1e-9 {
		t.Errorf("AlertThreshold = %v, want 0.75", cfg.Monitor.AlertThreshold)
	}
	if cfg.Mode != "inspect" {
		t.Errorf("Mode = %q, want inspect", cfg.Mode)
	}
	want := []string{"100", "200", "300"}
	if len(cfg.Discovery.ReferenceIDs) != 3 {
		t.Fatalf("ReferenceIDs = %v, want %v", cfg.Discovery.ReferenceIDs, want)
	}
	for i := range want {
		if cfg.Discovery.ReferenceIDs[i] != want[i] {
			t.Errorf("ReferenceIDs[%d] = %q, want %q", i, cfg.Discovery.ReferenceIDs[i], want[i])
		}
	}
	if cfg.Odds.ApiKey != "legacy-key" {
		t.Errorf("Odds.ApiKey = %q, want legacy alias applied", cfg.Odds.ApiKey)
	}
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Wallet.PrivateKey = "0xdeadbeef"
	cfg.Clob.ApiKey = "key"
	cfg.Clob.ApiSecret = "secret"
	cfg.Clob.ApiPassphrase = "phrase"
	cfg.Notify.DiscordWebhookURL = "https://discord.example/hook"

	red := RedactedConfig(&cfg)

	if red.Wallet.PrivateKey != "***" {
		t.Errorf("redacted PrivateKey = %q", red.Wallet.PrivateKey)
	}
	if red.Clob.ApiSecret != "***" {
		t.Errorf("redacted ApiSecret = %q", red.Clob.ApiSecret)
	}
	if red.Notify.DiscordWebhookURL != "***" {
		t.Errorf("redacted DiscordWebhookURL = %q", red.Notify.DiscordWebhookURL)
	}
	// The original is untouched.
	if cfg.Wallet.PrivateKey != "0xdeadbeef" {
		t.Error("RedactedConfig mutated the original")
	}
}
