// Package pg owns the pgxpool handle and the query trace seam above it
package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is the subset of pool tuning the loader exposes
type Config struct {
	URL      string
	MaxConns int32
	SlowMs   int
}

// PG couples the pool with the tracer and slow threshold the adapter reads
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

// seam so tests can fail or fake pool construction
var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL, applies MaxConns, lets tune adjust the parsed pool
// config, then builds the pool
func Open(ctx context.Context, cfg Config, tracer QueryTracer, tune func(*pgxpool.Config)) (*PG, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if tune != nil {
		tune(pc)
	}

	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Close is safe on a nil receiver and a never-opened pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
