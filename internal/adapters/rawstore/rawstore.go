// Package rawstore persists raw recently-played payloads keyed by capture day.
//
// One object per day holds the latest harvested page under
// "YYYY-MM-DD/recent_tracks.json". Writes for the same day are last write
// wins: a later pull replaces the earlier snapshot, and the loader always
// reads whatever the day's object holds at load time.
package rawstore

import (
	"context"
	"io"
	"time"
)

// ObjectName is the file component of every day key.
const ObjectName = "recent_tracks.json"

// KeyFor returns the object key for a capture day in YYYY-MM-DD form.
func KeyFor(day string) string { return day + "/" + ObjectName }

// KeyForDate returns the object key for the UTC day of t.
func KeyForDate(t time.Time) string { return KeyFor(t.UTC().Format("2006-01-02")) }

// Store is the blob seam for raw payloads. Get returns a reader the caller
// must close; a missing key reports ErrorCodeNotFound.
type Store interface {
	Put(ctx context.Context, key string, body []byte) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]string, error)
}
