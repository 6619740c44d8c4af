// Package store provides the transactional storage seam the repos run on.
// Repos never see pgx directly; they program against RowQuerier/TxRunner so
// tests can substitute fakes and transactions can rebind them
package store

import (
	"context"
	"errors"
	"fmt"

	"spinlog/internal/platform/logger"
)

// Store is the facade handed to modules; zero value is inert
type Store struct {
	// Log is used by subclients; zero means a no op zerolog logger
	Log logger.Logger

	// PG is the postgres seam, nil when disabled
	PG TxRunner
}

// Row is the minimal scan contract for a single row
type Row interface {
	Scan(dest ...any) error
}

// Rows is the minimal iteration contract for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag exposes write results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read/write surface repos use
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function; fn's q is bound to
// the transaction, and fn returning an error rolls it back
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Pinger is implemented by backends that can verify their connection
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store with the backends enabled in cfg
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, apply := range opts {
		if err := apply(s); err != nil {
			return nil, err
		}
	}

	// normalize the zero logger so subclients can use it unconditionally
	s.Log = s.Log.With().Logger()

	if !cfg.PG.Enabled {
		return s, nil
	}
	txr, err := openPG(ctx, cfg, s)
	if err != nil {
		return nil, err
	}
	s.PG = txr
	return s, nil
}

// Guard pings the configured backends and reports the first failure
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store is nil")
	}
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
	}
	return nil
}

// Close shuts down whichever backends were opened
func (s *Store) Close(_ context.Context) error {
	if c, ok := s.PG.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
