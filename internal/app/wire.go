package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cricsage/cricketwatch/internal/cache/redis"
	"github.com/cricsage/cricketwatch/internal/config"
	"github.com/cricsage/cricketwatch/internal/crypto"
	"github.com/cricsage/cricketwatch/internal/discovery"
	"github.com/cricsage/cricketwatch/internal/domain"
	"github.com/cricsage/cricketwatch/internal/monitor"
	"github.com/cricsage/cricketwatch/internal/notify"
	"github.com/cricsage/cricketwatch/internal/platform/polymarket"
)

// Dependencies bundles everything the application modes need. Constructed by
// Wire, torn down by the returned cleanup function.
type Dependencies struct {
	Gamma      *polymarket.GammaClient
	Clob       *polymarket.ClobClient
	Notifier   *notify.Notifier
	AlertCache domain.AlertCache // nil when Redis is disabled
	Discovery  *discovery.Service
	Monitor    *monitor.Monitor
}

// Wire constructs all concrete dependencies from the configuration. Missing
// wallet or CLOB credentials are not an error: the CLOB client degrades to
// read-only mode and everything that does not require authentication keeps
// working.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Signer (optional) ---
	var signer *crypto.Signer
	key, err := crypto.LoadKey(crypto.KeyConfig{
		RawPrivateKey:    cfg.Wallet.PrivateKey,
		EncryptedKeyPath: cfg.Wallet.EncryptedKeyPath,
		KeyPassword:      cfg.Wallet.KeyPassword,
	})
	switch {
	case err == nil:
		signer, err = crypto.NewSigner(key, cfg.Polymarket.ChainID)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: signer: %w", err)
		}
	case cfg.Wallet.PrivateKey == "" && cfg.Wallet.EncryptedKeyPath == "":
		logger.InfoContext(ctx, "no signing key configured, running read-only")
	default:
		cleanup()
		return nil, nil, fmt.Errorf("wire: load key: %w", err)
	}

	// --- CLOB credentials (optional) ---
	var hmacAuth *crypto.HMACAuth
	if cfg.Clob.ApiKey != "" {
		hmacAuth = &crypto.HMACAuth{
			Key:        cfg.Clob.ApiKey,
			Secret:     cfg.Clob.ApiSecret,
			Passphrase: cfg.Clob.ApiPassphrase,
		}
	}

	deps.Gamma = polymarket.NewGammaClient(cfg.Polymarket.GammaHost)
	deps.Clob = polymarket.NewClobClient(cfg.Polymarket.ClobHost, signer, hmacAuth)

	// With a signer but no pre-derived credential triple, run the ClobAuth
	// flow to obtain one. Failure is soft: the client stays read-only.
	if signer != nil && hmacAuth == nil {
		if err := deps.Clob.DeriveAPIKey(ctx); err != nil {
			logger.WarnContext(ctx, "api key derivation failed, continuing read-only",
				slog.String("error", err.Error()),
			)
		} else {
			logger.InfoContext(ctx, "derived clob api key",
				slog.String("address", signer.Address().Hex()),
			)
		}
	}

	// --- Notifications ---
	senders := []notify.Sender{notify.NewConsoleSender(os.Stdout)}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- Alert cache (optional) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		deps.AlertCache = redis.NewAlertCache(redisClient, cfg.Redis.AlertTTL.Duration)
	}

	// --- Services ---
	deps.Discovery = discovery.NewService(deps.Gamma, discovery.Config{
		ReferenceIDs: cfg.Discovery.ReferenceIDs,
		ListLimit:    cfg.Discovery.ListLimit,
		RelatedLimit: cfg.Discovery.RelatedLimit,
	}, logger)

	deps.Monitor = monitor.New(deps.Gamma, deps.Notifier, deps.AlertCache,
		cfg.Monitor.AlertThreshold, cfg.Monitor.PollInterval.Duration, logger)

	return deps, cleanup, nil
}
