package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies CRICKETWATCH_* environment variable overrides,
// and returns the final Config. The returned Config has NOT been validated;
// the caller should invoke Config.Validate() after Load.
//
// A missing config file is not an error: defaults plus environment overrides
// are enough to run read-only against the public APIs.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known CRICKETWATCH_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file. The legacy un-prefixed names used by the original scripts
// (CLOB_HOST, PK, CLOB_API_KEY, CLOB_SECRET, CLOB_PASS_PHRASE,
// DISCORD_WEBHOOK_URL, ODDS_API_KEY) are honored as aliases.
func applyEnvOverrides(cfg *Config) {
	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "CRICKETWATCH_GAMMA_HOST")
	setStr(&cfg.Polymarket.ClobHost, "CRICKETWATCH_CLOB_HOST")
	setStr(&cfg.Polymarket.ClobHost, "CLOB_HOST") // legacy alias
	setInt(&cfg.Polymarket.ChainID, "CRICKETWATCH_CHAIN_ID")

	// ── Wallet ──
	setStr(&cfg.Wallet.PrivateKey, "CRICKETWATCH_WALLET_PRIVATE_KEY")
	setStr(&cfg.Wallet.PrivateKey, "PK") // legacy alias
	setStr(&cfg.Wallet.EncryptedKeyPath, "CRICKETWATCH_WALLET_ENCRYPTED_KEY_PATH")
	setStr(&cfg.Wallet.KeyPassword, "CRICKETWATCH_WALLET_KEY_PASSWORD")

	// ── CLOB credentials ──
	setStr(&cfg.Clob.ApiKey, "CRICKETWATCH_CLOB_API_KEY")
	setStr(&cfg.Clob.ApiKey, "CLOB_API_KEY") // legacy alias
	setStr(&cfg.Clob.ApiSecret, "CRICKETWATCH_CLOB_API_SECRET")
	setStr(&cfg.Clob.ApiSecret, "CLOB_SECRET") // legacy alias
	setStr(&cfg.Clob.ApiPassphrase, "CRICKETWATCH_CLOB_API_PASSPHRASE")
	setStr(&cfg.Clob.ApiPassphrase, "CLOB_PASS_PHRASE") // legacy alias

	// ── Discovery ──
	setStringSlice(&cfg.Discovery.ReferenceIDs, "CRICKETWATCH_DISCOVERY_REFERENCE_IDS")
	setInt(&cfg.Discovery.ListLimit, "CRICKETWATCH_DISCOVERY_LIST_LIMIT")
	setInt(&cfg.Discovery.RelatedLimit, "CRICKETWATCH_DISCOVERY_RELATED_LIMIT")

	// ── Monitor ──
	setFloat64(&cfg.Monitor.AlertThreshold, "CRICKETWATCH_MONITOR_ALERT_THRESHOLD")
	setDuration(&cfg.Monitor.PollInterval, "CRICKETWATCH_MONITOR_POLL_INTERVAL")

	// ── Odds ──
	setStr(&cfg.Odds.ApiKey, "CRICKETWATCH_ODDS_API_KEY")
	setStr(&cfg.Odds.ApiKey, "ODDS_API_KEY") // legacy alias
	setStr(&cfg.Odds.ApiHost, "CRICKETWATCH_ODDS_API_HOST")
	setStr(&cfg.Odds.SportKey, "CRICKETWATCH_ODDS_SPORT_KEY")
	setStr(&cfg.Odds.Regions, "CRICKETWATCH_ODDS_REGIONS")
	setStr(&cfg.Odds.MatchesFile, "CRICKETWATCH_ODDS_MATCHES_FILE")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "CRICKETWATCH_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "CRICKETWATCH_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "CRICKETWATCH_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "CRICKETWATCH_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "CRICKETWATCH_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "CRICKETWATCH_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "CRICKETWATCH_REDIS_TLS_ENABLED")
	setDuration(&cfg.Redis.AlertTTL, "CRICKETWATCH_REDIS_ALERT_TTL")

	// ── Notify ──
	setStr(&cfg.Notify.DiscordWebhookURL, "CRICKETWATCH_NOTIFY_DISCORD_WEBHOOK_URL")
	setStr(&cfg.Notify.DiscordWebhookURL, "DISCORD_WEBHOOK_URL") // legacy alias
	setStr(&cfg.Notify.TelegramToken, "CRICKETWATCH_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "CRICKETWATCH_NOTIFY_TELEGRAM_CHAT_ID")
	setStringSlice(&cfg.Notify.Events, "CRICKETWATCH_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "CRICKETWATCH_MODE")
	setStr(&cfg.LogLevel, "CRICKETWATCH_LOG_LEVEL")
	setStr(&cfg.LogFile, "CRICKETWATCH_LOG_FILE")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
