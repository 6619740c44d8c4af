package domain

import (
	"context"

	"spinlog/internal/core/refs"
)

// EnricherPort runs one category enrichment pass over extracted ids
type EnricherPort interface {
	Enrich(ctx context.Context, cat refs.Category, ids []string) (EnrichOutcome, error)
}

// FetcherPort resolves novel ids to full dimension rows. Partial results are
// acceptable; ids the source does not know stay undiscovered and surface
// again on a later run's novelty pass.
type FetcherPort interface {
	Fetch(ctx context.Context, cat refs.Category, ids []string) ([]DimensionRow, error)
}
