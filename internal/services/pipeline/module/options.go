package module

import (
	"time"

	"spinlog/internal/adapters/rawstore"
	"spinlog/internal/platform/config"
	"spinlog/internal/services/pipeline/guardrails"
)

// Options holds configuration settings for the pipeline module
type Options struct {
	Timeouts guardrails.Timeouts
	Raw      rawstore.Options

	// StmtTimeout is applied as SET LOCAL statement_timeout inside every
	// merge transaction; zero disables the hook
	StmtTimeout time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	pf := cfg.Prefix("SPINLOG_PIPELINE_")
	return Options{
		Timeouts: guardrails.Timeouts{
			Read:  pf.MayDuration("READ_TIMEOUT", 10*time.Second),
			Fetch: pf.MayDuration("FETCH_TIMEOUT", 30*time.Second),
			DB:    pf.MayDuration("DB_TIMEOUT", 20*time.Second),
		},
		Raw:         rawFromConfig(cfg),
		StmtTimeout: pf.MayDuration("STMT_TIMEOUT", 15*time.Second),
	}
}

// rawFromConfig maps the shared raw zone settings; the harvest module reads
// the same keys so both ends of the raw zone agree on a backend
func rawFromConfig(cfg config.Conf) rawstore.Options {
	rf := cfg.Prefix("SPINLOG_RAW_")
	return rawstore.Options{
		Backend: rf.MayString("BACKEND", rawstore.BackendLocal),
		Dir:     rf.MayString("DIR", "data/raw"),
		S3: rawstore.S3Options{
			Bucket:       rf.MayString("BUCKET", ""),
			Region:       rf.MayString("REGION", ""),
			Endpoint:     rf.MayString("ENDPOINT", ""),
			UsePathStyle: rf.MayBool("PATH_STYLE", false),
			MaxRetries:   rf.MayInt("MAX_RETRIES", 0),
		},
	}
}
