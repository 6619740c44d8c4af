package module

import (
	"time"

	"spinlog/internal/adapters/spotify"
	"spinlog/internal/platform/config"
	"spinlog/internal/services/catalog/domain"
	"spinlog/internal/services/pipeline/guardrails"
)

// Options holds configuration settings for the catalog module
type Options struct {
	Timeouts guardrails.Timeouts
	Policy   domain.MergePolicy
	Spotify  spotify.Options
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	cf := cfg.Prefix("SPINLOG_CATALOG_")
	sf := cfg.Prefix("SPINLOG_SPOTIFY_")
	return Options{
		Timeouts: guardrails.Timeouts{
			Read:  cf.MayDuration("READ_TIMEOUT", 10*time.Second),
			Fetch: cf.MayDuration("FETCH_TIMEOUT", 30*time.Second),
			DB:    cf.MayDuration("DB_TIMEOUT", 20*time.Second),
		},
		Policy: domain.MergePolicy(cf.MayString("MERGE_POLICY", string(domain.MergePolicyInsertOnly))),
		Spotify: spotify.Options{
			BaseURL:      sf.MayString("BASE_URL", ""),
			AccountsURL:  sf.MayString("ACCOUNTS_URL", ""),
			ClientID:     sf.MayString("CLIENT_ID", ""),
			ClientSecret: sf.MayString("CLIENT_SECRET", ""),
			RefreshToken: sf.MayString("REFRESH_TOKEN", ""),
			MaxRetries:   sf.MayInt("MAX_RETRIES", 0),
			RetryBase:    sf.MayDuration("RETRY_BASE", 0),
		},
	}
}
