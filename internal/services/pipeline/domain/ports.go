package domain

import (
	"context"

	catdomain "spinlog/internal/services/catalog/domain"
)

// RunnerPort runs one batch through the full pipeline. The report is always
// non nil; the error is non nil only for run level failure such as a fact
// stage store error or caller cancellation.
type RunnerPort interface {
	Run(ctx context.Context, batch Batch) (*RunReport, error)
}

// LoaderPort resolves one stored raw batch. The key is either a calendar
// day (2006-01-02) or a full raw zone object key.
type LoaderPort interface {
	Load(ctx context.Context, key string) (Batch, error)
}

// Ports are dependencies injected into the pipeline module
type Ports struct {
	Enricher catdomain.EnricherPort // required
}
