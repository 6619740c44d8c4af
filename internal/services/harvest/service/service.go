// Package service implements the harvest pull workflow
package service

import (
	"bytes"
	"context"
	"time"

	"spinlog/internal/adapters/rawstore"
	"spinlog/internal/adapters/spotify"
	"spinlog/internal/core/flatten"
	perr "spinlog/internal/platform/errors"
	"spinlog/internal/platform/logger"
	"spinlog/internal/services/harvest/domain"
)

// Service defines the harvest service contract
type Service interface {
	domain.HarvesterPort
}

// RecentClient is the slice of the Spotify client harvest needs
type RecentClient interface {
	RecentlyPlayed(ctx context.Context, limit int, after time.Time) ([]byte, error)
}

// Config carries runtime knobs for harvest pulls
type Config struct {
	Limit    int           // page size, clamped to the API ceiling by the client
	Lookback time.Duration // nonzero narrows the pull to plays newer than now minus lookback
	Spotify  spotify.Options
}

// Svc implements the harvest service
type Svc struct {
	client RecentClient
	store  rawstore.Store
	cfg    Config
	log    logger.Logger
	now    func() time.Time
}

// New constructs a harvest service backed by the real Spotify client
func New(store rawstore.Store, cfg Config) *Svc {
	return NewWithClient(store, cfg, spotify.NewClient(cfg.Spotify))
}

// NewWithClient constructs a harvest service with the given recent plays source
func NewWithClient(store rawstore.Store, cfg Config, client RecentClient) *Svc {
	if store == nil {
		panic("harvest.Service requires a raw store")
	}
	if client == nil {
		panic("harvest.Service requires a recent plays client")
	}
	if cfg.Limit <= 0 {
		cfg.Limit = spotify.RecentLimitMax
	}
	return &Svc{
		client: client,
		store:  store,
		cfg:    cfg,
		log:    *logger.Named("harvest"),
		now:    time.Now,
	}
}

// Harvest implements domain.HarvesterPort. The payload must decode as a
// recently played page before it lands; nothing is written for a pull that
// fails or returns garbage.
func (s *Svc) Harvest(ctx context.Context) (string, error) {
	var after time.Time
	if s.cfg.Lookback > 0 {
		after = s.now().Add(-s.cfg.Lookback)
	}

	body, err := s.client.RecentlyPlayed(ctx, s.cfg.Limit, after)
	if err != nil {
		return "", err
	}

	records, err := flatten.DecodeBatch(bytes.NewReader(body))
	if err != nil {
		return "", perr.Wrapf(err, perr.CodeOf(err), "harvest payload")
	}

	key := rawstore.KeyForDate(s.now())
	if err := s.store.Put(ctx, key, body); err != nil {
		return "", err
	}

	s.log.Info().
		Str("key", key).
		Int("records", len(records)).
		Int("bytes", len(body)).
		Msg("harvest stored raw batch")
	return key, nil
}
