// Package service contains the pipeline orchestration workflow
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"spinlog/internal/core/flatten"
	"spinlog/internal/core/refs"
	"spinlog/internal/modkit"
	"spinlog/internal/modkit/repokit"
	"spinlog/internal/platform/logger"
	catdomain "spinlog/internal/services/catalog/domain"
	"spinlog/internal/services/pipeline/domain"
	"spinlog/internal/services/pipeline/guardrails"
	"spinlog/internal/services/pipeline/repo"
)

// Service defines the pipeline service contract
type Service interface {
	domain.RunnerPort
}

// Config carries runtime knobs for pipeline runs
type Config struct {
	Timeouts guardrails.Timeouts
}

// Svc implements the pipeline service
type Svc struct {
	db       repokit.TxRunner
	binder   repokit.Binder[repo.Storage]
	enricher catdomain.EnricherPort
	cfg      Config
	log      logger.Logger
	newRunID func() uuid.UUID
	now      func() time.Time
}

// New constructs a pipeline service
func New(deps modkit.Deps, enricher catdomain.EnricherPort, cfg Config) *Svc {
	if deps.PG == nil {
		panic("pipeline.Service requires a non nil TxRunner")
	}
	if enricher == nil {
		panic("pipeline.Service requires an enricher")
	}
	return &Svc{
		db:       deps.PG,
		binder:   repo.NewPG(),
		enricher: enricher,
		cfg:      cfg,
		log:      *logger.Named("pipeline"),
		newRunID: uuid.New,
		now:      time.Now,
	}
}

// Run implements domain.RunnerPort. One batch flows normalize, fact merge,
// then the three category sub pipelines in parallel, then the report. The
// report is always non nil.
func (s *Svc) Run(ctx context.Context, batch domain.Batch) (*domain.RunReport, error) {
	report := &domain.RunReport{
		RunID:     s.newRunID(),
		BatchKey:  batch.BatchKey,
		Status:    domain.RunOK,
		StartedAt: s.now().UTC(),
		Records:   len(batch.Records),
	}
	ctx = logger.WithRun(ctx, report.RunID.String())
	log := s.log.With().
		Str("run_id", report.RunID.String()).
		Str("batch_key", batch.BatchKey).
		Logger()

	// normalize; malformed records are counted, never fatal
	rows := make([]flatten.PlayRow, 0, len(batch.Records))
	for _, raw := range batch.Records {
		row, err := flatten.Flatten(raw)
		if err != nil {
			report.Malformed++
			log.Debug().Err(err).Msg("pipeline drop malformed record")
			continue
		}
		rows = append(rows, row)
	}

	outcome, err := s.mergeFacts(ctx, rows)
	report.FactInserted = len(outcome.Inserted)
	report.FactSkipped = outcome.Skipped
	report.FactInBatchDups = outcome.InBatchDups
	if err != nil {
		log.Error().Err(err).Msg("pipeline fact merge failed")
		return s.finish(report, err), err
	}

	// only rows that actually landed feed extraction, so replays discover
	// nothing and trigger zero fetches
	ids := refs.Extract(insertedRows(rows, outcome.Inserted))

	cats := refs.Categories()
	outcomes := make([]domain.CategoryOutcome, len(cats))
	var wg sync.WaitGroup
	for i, cat := range cats {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = s.runCategory(ctx, cat, ids.IDs(cat))
		}()
	}
	wg.Wait()
	report.Categories = outcomes

	if err := ctx.Err(); err != nil {
		log.Warn().Err(err).Msg("pipeline run cancelled")
		return s.finish(report, err), err
	}

	s.finish(report, nil)
	log.Info().
		Int("records", report.Records).
		Int("malformed", report.Malformed).
		Int("fact_inserted", report.FactInserted).
		Int("fact_skipped", report.FactSkipped).
		Int("fact_in_batch_dups", report.FactInBatchDups).
		Dur("elapsed", report.Elapsed()).
		Msg("pipeline run complete")
	return report, nil
}

func (s *Svc) finish(report *domain.RunReport, err error) *domain.RunReport {
	if err != nil {
		report.Status = domain.RunFailed
		report.Error = err.Error()
	}
	report.FinishedAt = s.now().UTC()
	return report
}

// mergeFacts commits all eligible inserts atomically before any category
// sub pipeline starts
func (s *Svc) mergeFacts(ctx context.Context, rows []flatten.PlayRow) (domain.MergeOutcome, error) {
	var out domain.MergeOutcome
	if len(rows) == 0 {
		return out, nil
	}
	dctx, cancel := s.cfg.Timeouts.ForDB(ctx)
	defer cancel()

	err := s.db.Tx(dctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.binder.Bind(q).MergePlays(dctx, rows)
		return err
	})
	return out, err
}

func (s *Svc) runCategory(ctx context.Context, cat refs.Category, ids []string) domain.CategoryOutcome {
	enriched, err := s.enricher.Enrich(ctx, cat, ids)
	out := domain.CategoryOutcome{
		Category:  cat,
		Status:    domain.CategoryOK,
		Extracted: enriched.Extracted,
		Novel:     enriched.Novel,
		Fetched:   enriched.Fetched,
		Inserted:  enriched.Inserted,
		Deduped:   enriched.Deduped,
	}
	if err != nil {
		out.Status = domain.CategoryFailed
		out.Error = err.Error()
		logger.C(ctx).Warn().Str("category", string(cat)).Err(err).Msg("pipeline category failed")
	}
	return out
}

// insertedRows keeps the first occurrence of each inserted key in batch order
func insertedRows(rows []flatten.PlayRow, keys []domain.PlayKey) []flatten.PlayRow {
	if len(keys) == 0 {
		return nil
	}
	type nk struct {
		at int64
		id string
	}
	set := make(map[nk]struct{}, len(keys))
	for _, k := range keys {
		set[nk{at: k.PlayedAt.UnixNano(), id: k.TrackID}] = struct{}{}
	}
	out := make([]flatten.PlayRow, 0, len(keys))
	for _, r := range rows {
		k := nk{at: r.PlayedAt.UnixNano(), id: r.TrackID}
		if _, ok := set[k]; !ok {
			continue
		}
		delete(set, k)
		out = append(out, r)
	}
	return out
}
