package module

import (
	"time"

	"spinlog/internal/adapters/rawstore"
	"spinlog/internal/adapters/spotify"
	"spinlog/internal/platform/config"
)

// Options holds configuration settings for the harvest module
type Options struct {
	Limit    int
	Lookback time.Duration
	Spotify  spotify.Options
	Raw      rawstore.Options
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	hf := cfg.Prefix("SPINLOG_HARVEST_")
	sf := cfg.Prefix("SPINLOG_SPOTIFY_")
	rf := cfg.Prefix("SPINLOG_RAW_")
	return Options{
		Limit:    hf.MayInt("LIMIT", 50),
		Lookback: hf.MayDuration("LOOKBACK", 0),
		Spotify: spotify.Options{
			BaseURL:      sf.MayString("BASE_URL", ""),
			AccountsURL:  sf.MayString("ACCOUNTS_URL", ""),
			ClientID:     sf.MayString("CLIENT_ID", ""),
			ClientSecret: sf.MayString("CLIENT_SECRET", ""),
			RefreshToken: sf.MayString("REFRESH_TOKEN", ""),
			MaxRetries:   sf.MayInt("MAX_RETRIES", 0),
			RetryBase:    sf.MayDuration("RETRY_BASE", 0),
		},
		Raw: rawstore.Options{
			Backend: rf.MayString("BACKEND", rawstore.BackendLocal),
			Dir:     rf.MayString("DIR", "data/raw"),
			S3: rawstore.S3Options{
				Bucket:       rf.MayString("BUCKET", ""),
				Region:       rf.MayString("REGION", ""),
				Endpoint:     rf.MayString("ENDPOINT", ""),
				UsePathStyle: rf.MayBool("PATH_STYLE", false),
				MaxRetries:   rf.MayInt("MAX_RETRIES", 0),
			},
		},
	}
}
