// Package config defines the top-level configuration for cricketwatch and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by CRICKETWATCH_* environment
// variables.
type Config struct {
	Polymarket PolymarketConfig `toml:"polymarket"`
	Wallet     WalletConfig     `toml:"wallet"`
	Clob       ClobConfig       `toml:"clob"`
	Discovery  DiscoveryConfig  `toml:"discovery"`
	Monitor    MonitorConfig    `toml:"monitor"`
	Odds       OddsConfig       `toml:"odds"`
	Redis      RedisConfig      `toml:"redis"`
	Notify     NotifyConfig     `toml:"notify"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
	LogFile    string           `toml:"log_file"`
}

// PolymarketConfig holds Polymarket API endpoints and chain parameters.
type PolymarketConfig struct {
	GammaHost string `toml:"gamma_host"`
	ClobHost  string `toml:"clob_host"`
	ChainID   int    `toml:"chain_id"`
}

// WalletConfig holds the signing key used for the CLOB auth flow. All fields
// are optional: without a key the CLOB client runs in read-only mode.
type WalletConfig struct {
	PrivateKey       string `toml:"private_key"`
	EncryptedKeyPath string `toml:"encrypted_key_path"`
	KeyPassword      string `toml:"key_password"`
}

// ClobConfig holds pre-derived CLOB API credentials. When all three are set
// the auth flow is skipped; when all are empty the client either derives a
// key from the wallet or stays read-only.
type ClobConfig struct {
	ApiKey        string `toml:"api_key"`
	ApiSecret     string `toml:"api_secret"`
	ApiPassphrase string `toml:"api_passphrase"`
}

// DiscoveryConfig holds market-discovery parameters.
type DiscoveryConfig struct {
	// ReferenceIDs are known cricket market IDs whose related-markets lists
	// seed discovery.
	ReferenceIDs []string `toml:"reference_ids"`
	// ListLimit is the page size for the direct market listing.
	ListLimit int `toml:"list_limit"`
	// RelatedLimit is the page size for each related-markets request.
	RelatedLimit int `toml:"related_limit"`
}

// MonitorConfig holds threshold-monitor parameters.
type MonitorConfig struct {
	// AlertThreshold is the outcome probability (0..1) a market must strictly
	// exceed to enter the watch set. The legacy scripts labelled alerts
	// ">70%" while comparing against 0.60; the comparison value is what is
	// preserved here, and it is configurable.
	AlertThreshold float64 `toml:"alert_threshold"`
	// PollInterval is the sleep between poll cycles.
	PollInterval duration `toml:"poll_interval"`
}

// OddsSite is one bookmaker page the odds aggregator scrapes.
type OddsSite struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// OddsConfig holds parameters for the IPL odds aggregator.
type OddsConfig struct {
	// ApiKey is The Odds API key; empty disables the API source.
	ApiKey string `toml:"api_key"`
	// ApiHost is The Odds API root.
	ApiHost string `toml:"api_host"`
	// SportKey selects the competition, e.g. "cricket_ipl".
	SportKey string `toml:"sport_key"`
	// Regions is the comma-separated bookmaker regions filter.
	Regions string `toml:"regions"`
	// Sites are bookmaker pages to scrape before falling back to the API.
	Sites []OddsSite `toml:"sites"`
	// MatchesFile is the path to the match list read by cmd/oddsagg.
	MatchesFile string `toml:"matches_file"`
}

// RedisConfig holds Redis connection parameters for the optional alert-dedup
// cache. Disabled by default; everything works without Redis.
type RedisConfig struct {
	Enabled    bool     `toml:"enabled"`
	Addr       string   `toml:"addr"`
	Password   string   `toml:"password"`
	DB         int      `toml:"db"`
	PoolSize   int      `toml:"pool_size"`
	MaxRetries int      `toml:"max_retries"`
	TLSEnabled bool     `toml:"tls_enabled"`
	AlertTTL   duration `toml:"alert_ttl"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "30s", "5m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Polymarket: PolymarketConfig{
			GammaHost: "https://gamma-api.polymarket.com",
			ClobHost:  "https://clob.polymarket.com",
			ChainID:   137,
		},
		Discovery: DiscoveryConfig{
			ReferenceIDs: []string{"531894", "531899", "531895", "531896"},
			ListLimit:    100,
			RelatedLimit: 50,
		},
		Monitor: MonitorConfig{
			AlertThreshold: 0.60,
			PollInterval:   duration{30 * time.Second},
		},
		Odds: OddsConfig{
			ApiHost:     "https://api.the-odds-api.com",
			SportKey:    "cricket_ipl",
			Regions:     "us,uk,eu,au",
			MatchesFile: "matches.txt",
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   10,
			MaxRetries: 3,
			AlertTTL:   duration{24 * time.Hour},
		},
		Notify: NotifyConfig{
			Events: []string{"alert", "still_high", "resolved"},
		},
		Mode:     "monitor",
		LogLevel: "info",
		LogFile:  "polymarket_odds.txt",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"discover": true,
	"monitor":  true,
	"inspect":  true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: discover, monitor, inspect)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}
	if c.Polymarket.ClobHost == "" {
		errs = append(errs, "polymarket: clob_host must not be empty")
	}
	if c.Polymarket.ChainID <= 0 {
		errs = append(errs, "polymarket: chain_id must be positive")
	}

	if c.Wallet.EncryptedKeyPath != "" && c.Wallet.KeyPassword == "" {
		errs = append(errs, "wallet: key_password is required when encrypted_key_path is set")
	}

	// CLOB creds must be set all together, or not at all.
	ck := c.Clob.ApiKey != ""
	cs := c.Clob.ApiSecret != ""
	cp := c.Clob.ApiPassphrase != ""
	if (ck || cs || cp) && !(ck && cs && cp) {
		errs = append(errs, "clob: api_key, api_secret, and api_passphrase must all be set together")
	}

	if c.Monitor.AlertThreshold <= 0 || c.Monitor.AlertThreshold >= 1 {
		errs = append(errs, fmt.Sprintf("monitor: alert_threshold must be in (0, 1), got %g", c.Monitor.AlertThreshold))
	}
	if c.Monitor.PollInterval.Duration <= 0 {
		errs = append(errs, "monitor: poll_interval must be positive")
	}

	if c.Discovery.ListLimit <= 0 {
		errs = append(errs, "discovery: list_limit must be positive")
	}
	if c.Discovery.RelatedLimit <= 0 {
		errs = append(errs, "discovery: related_limit must be positive")
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1 when enabled")
		}
	}

	if c.Odds.ApiHost == "" {
		errs = append(errs, "odds: api_host must not be empty")
	}
	if c.Odds.MatchesFile == "" {
		errs = append(errs, "odds: matches_file must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
