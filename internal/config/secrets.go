package config

// RedactedConfig returns a shallow copy of cfg with sensitive fields replaced
// by the redaction placeholder "***". Use this when logging or printing the
// active configuration so secrets are never accidentally exposed.
func RedactedConfig(cfg *Config) Config {
	out := *cfg // shallow copy of the top-level struct

	redact(&out.Wallet.PrivateKey)
	redact(&out.Wallet.KeyPassword)

	redact(&out.Clob.ApiKey)
	redact(&out.Clob.ApiSecret)
	redact(&out.Clob.ApiPassphrase)

	redact(&out.Odds.ApiKey)

	redact(&out.Redis.Password)

	redact(&out.Notify.DiscordWebhookURL)
	redact(&out.Notify.TelegramToken)

	// Copy slices so callers cannot mutate the original through the redacted
	// copy.
	if cfg.Notify.Events != nil {
		out.Notify.Events = make([]string, len(cfg.Notify.Events))
		copy(out.Notify.Events, cfg.Notify.Events)
	}
	if cfg.Discovery.ReferenceIDs != nil {
		out.Discovery.ReferenceIDs = make([]string, len(cfg.Discovery.ReferenceIDs))
		copy(out.Discovery.ReferenceIDs, cfg.Discovery.ReferenceIDs)
	}
	if cfg.Odds.Sites != nil {
		out.Odds.Sites = make([]OddsSite, len(cfg.Odds.Sites))
		copy(out.Odds.Sites, cfg.Odds.Sites)
	}

	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}
