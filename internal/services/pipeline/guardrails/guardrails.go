// Package guardrails derives the per phase deadlines a pipeline run operates under
package guardrails

import (
	"context"
	"time"
)

// Timeouts caps each pipeline phase. A zero duration leaves the parent
// deadline as is. Derived contexts can only shorten the parent deadline,
// never extend it.
type Timeouts struct {
	Read  time.Duration // dimension key set reads
	Fetch time.Duration // metadata fetch calls
	DB    time.Duration // merge transactions
}

// Defaults returns the timeouts a patient single user pipeline runs with
func Defaults() Timeouts {
	return Timeouts{
		Read:  10 * time.Second,
		Fetch: 30 * time.Second,
		DB:    20 * time.Second,
	}
}

// ForRead bounds ctx for a dimension key set read
func (t Timeouts) ForRead(ctx context.Context) (context.Context, context.CancelFunc) {
	return bound(ctx, t.Read)
}

// ForFetch bounds ctx for metadata fetch calls
func (t Timeouts) ForFetch(ctx context.Context) (context.Context, context.CancelFunc) {
	return bound(ctx, t.Fetch)
}

// ForDB bounds ctx for a merge transaction
func (t Timeouts) ForDB(ctx context.Context) (context.Context, context.CancelFunc) {
	return bound(ctx, t.DB)
}

func bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
