// Package domain defines pipeline run types and ports
package domain

import (
	"time"

	"github.com/google/uuid"

	"spinlog/internal/core/flatten"
	"spinlog/internal/core/refs"
)

// Batch is one raw day's records under its store key, owned by the
// orchestrator for a single run and discarded after
type Batch struct {
	BatchKey string
	Records  []flatten.RawRecord
}

// PlayKey is the natural key of one stored play
type PlayKey struct {
	PlayedAt time.Time `json:"played_at"`
	TrackID  string    `json:"track_id"`
}

// MergeOutcome reports one fact merge call. Inserted carries the exact keys
// that landed; existing rows and collapsed duplicates never appear in it.
type MergeOutcome struct {
	Inserted    []PlayKey
	Skipped     int
	InBatchDups int
}

// RunStatus is the terminal state of a run
type RunStatus string

// Run terminal states
const (
	RunOK     RunStatus = "ok"
	RunFailed RunStatus = "failed"
)

// CategoryStatus is the terminal state of one category sub pipeline
type CategoryStatus string

// Category terminal states
const (
	CategoryOK     CategoryStatus = "ok"
	CategoryFailed CategoryStatus = "failed"
)

// CategoryOutcome reports one category sub pipeline. A failed category never
// fails the run; facts stay and the other categories proceed.
type CategoryOutcome struct {
	Category  refs.Category  `json:"category"`
	Status    CategoryStatus `json:"status"`
	Extracted int            `json:"extracted"`
	Novel     int            `json:"novel"`
	Fetched   int            `json:"fetched"`
	Inserted  int            `json:"inserted"`
	Deduped   int            `json:"deduped"`
	Error     string         `json:"error,omitempty"`
}

// RunReport is the transient summary of one pipeline run. It is returned to
// the caller and never persisted; counts reflect actual table mutations.
type RunReport struct {
	RunID      uuid.UUID `json:"run_id"`
	BatchKey   string    `json:"batch_key"`
	Status     RunStatus `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Records         int `json:"records"`
	Malformed       int `json:"malformed"`
	FactInserted    int `json:"fact_inserted"`
	FactSkipped     int `json:"fact_skipped"`
	FactInBatchDups int `json:"fact_in_batch_dups"`

	Categories []CategoryOutcome `json:"categories"`
	Error      string            `json:"error,omitempty"`
}

// Elapsed returns the wall time the run took
func (r *RunReport) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
