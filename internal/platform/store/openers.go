package store

import (
	"context"
	"fmt"
	"time"

	"spinlog/internal/platform/store/pg"
)

// pgPingAttempts bounds how long boot waits for postgres to come up; a cold
// compose stack answers well inside this window
const (
	pgPingAttempts = 20
	pgPingTimeout  = 3 * time.Second
	pgBackoffStart = 150 * time.Millisecond
	pgBackoffMax   = 2 * time.Second
)

// openPG opens the pool, waits for it to answer a ping, then publishes the
// sql adapter; pinging the raw pool avoids a trace line per retry
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var qt pg.QueryTracer
	if cfg.PG.LogSQL {
		qt = pg.Tracer(s.Log)
	}

	db, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, qt, nil)
	if err != nil {
		return nil, err
	}

	backoff := pgBackoffStart
	var pingErr error
	for attempt := 0; attempt < pgPingAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pgPingTimeout)
		pingErr = db.Pool.Ping(pingCtx)
		cancel()

		if pingErr == nil {
			adapter := newPGAdapter(db)
			s.PG = adapter
			return adapter, nil
		}
		if ctx.Err() != nil {
			db.Close()
			return nil, ctx.Err()
		}

		time.Sleep(backoff)
		if backoff *= 2; backoff > pgBackoffMax {
			backoff = pgBackoffMax
		}
	}

	db.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", pgPingAttempts, pingErr)
}
