// Package service contains catalog enrichment workflows
package service

import (
	"context"

	"spinlog/internal/adapters/spotify"
	"spinlog/internal/core/refs"
	"spinlog/internal/modkit"
	"spinlog/internal/modkit/repokit"
	perr "spinlog/internal/platform/errors"
	"spinlog/internal/platform/logger"
	"spinlog/internal/services/catalog/domain"
	"spinlog/internal/services/catalog/repo"
	"spinlog/internal/services/pipeline/guardrails"
)

// Service defines the catalog service contract
type Service interface {
	domain.EnricherPort
}

// Config carries runtime knobs for enrichment passes. Policy is a declared
// choice, not a switch: insert_only is the only value the merge implements,
// and anything else is refused at construction so a future refresh policy
// lands as code, not as a silently ignored env var.
type Config struct {
	Timeouts guardrails.Timeouts
	Policy   domain.MergePolicy
	Spotify  spotify.Options
}

// Svc implements the catalog service
type Svc struct {
	db      repokit.TxRunner
	binder  repokit.Binder[repo.Storage]
	fetcher domain.FetcherPort
	cfg     Config
	log     logger.Logger
}

// New constructs a catalog service backed by the Spotify fetcher
func New(deps modkit.Deps, cfg Config) *Svc {
	return NewWithFetcher(deps, cfg, NewSpotifyFetcher(spotify.NewClient(cfg.Spotify)))
}

// NewWithFetcher wires an explicit fetcher
func NewWithFetcher(deps modkit.Deps, cfg Config, fetcher domain.FetcherPort) *Svc {
	if deps.PG == nil {
		panic("catalog.Service requires a non nil TxRunner")
	}
	if fetcher == nil {
		panic("catalog.Service requires a fetcher")
	}
	if cfg.Policy == "" {
		cfg.Policy = domain.MergePolicyInsertOnly
	}
	if cfg.Policy != domain.MergePolicyInsertOnly {
		panic("catalog.Service merge policy " + string(cfg.Policy) + " is not implemented")
	}
	return &Svc{
		db:      deps.PG,
		binder:  repo.NewPG(),
		fetcher: fetcher,
		cfg:     cfg,
		log:     *logger.Named("catalog"),
	}
}

// Enrich implements domain.EnricherPort. One pass per category: read the
// known key set, diff for novel ids, fetch their metadata, merge insert only.
// The outcome's counts reflect actual table mutations.
func (s *Svc) Enrich(ctx context.Context, cat refs.Category, ids []string) (domain.EnrichOutcome, error) {
	out := domain.EnrichOutcome{Category: cat, Extracted: len(ids)}
	if !cat.Valid() {
		return out, perr.InvalidArgf("unknown category %q", cat)
	}
	if len(ids) == 0 {
		return out, nil
	}

	known, err := s.keySet(ctx, cat)
	if err != nil {
		return out, err
	}
	novel := refs.Novel(ids, known)
	out.Novel = len(novel)
	if len(novel) == 0 {
		return out, nil
	}

	rows, err := s.fetch(ctx, cat, novel)
	if err != nil {
		return out, err
	}
	out.Fetched = len(rows)
	if len(rows) == 0 {
		return out, nil
	}

	inserted, deduped, err := s.merge(ctx, cat, rows)
	if err != nil {
		return out, err
	}
	out.Inserted = inserted
	out.Deduped = deduped

	s.log.Debug().
		Str("category", string(cat)).
		Int("extracted", out.Extracted).
		Int("novel", out.Novel).
		Int("fetched", out.Fetched).
		Int("inserted", out.Inserted).
		Int("deduped", out.Deduped).
		Msg("catalog enrich pass")
	return out, nil
}

func (s *Svc) keySet(ctx context.Context, cat refs.Category) (map[string]struct{}, error) {
	rctx, cancel := s.cfg.Timeouts.ForRead(ctx)
	defer cancel()

	var known map[string]struct{}
	err := s.db.Tx(rctx, func(q repokit.Queryer) error {
		var err error
		known, err = s.binder.Bind(q).KeySet(rctx, cat)
		return err
	})
	return known, err
}

func (s *Svc) fetch(ctx context.Context, cat refs.Category, ids []string) ([]domain.DimensionRow, error) {
	fctx, cancel := s.cfg.Timeouts.ForFetch(ctx)
	defer cancel()
	return s.fetcher.Fetch(fctx, cat, ids)
}

// merge runs inside this category's own transaction so a partial insert
// never becomes visible
func (s *Svc) merge(ctx context.Context, cat refs.Category, rows []domain.DimensionRow) (int, int, error) {
	mctx, cancel := s.cfg.Timeouts.ForDB(ctx)
	defer cancel()

	var inserted, deduped int
	err := s.db.Tx(mctx, func(q repokit.Queryer) error {
		var err error
		inserted, deduped, err = s.binder.Bind(q).MergeDimensions(mctx, cat, rows)
		return err
	})
	return inserted, deduped, err
}
