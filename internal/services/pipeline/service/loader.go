package service

import (
	"context"
	"strings"

	"spinlog/internal/adapters/rawstore"
	"spinlog/internal/core/flatten"
	perr "spinlog/internal/platform/errors"
	"spinlog/internal/platform/logger"
	"spinlog/internal/services/pipeline/domain"
)

// Loader reads stored raw batches out of the raw zone
type Loader struct {
	store rawstore.Store
	log   logger.Logger
}

// NewLoader constructs a batch loader over the given raw store
func NewLoader(store rawstore.Store) *Loader {
	if store == nil {
		panic("pipeline.Loader requires a raw store")
	}
	return &Loader{store: store, log: *logger.Named("pipeline")}
}

// Load implements domain.LoaderPort. A bare day expands to that day's object
// key; the returned batch carries the object key it was read from.
func (l *Loader) Load(ctx context.Context, key string) (domain.Batch, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Batch{}, perr.InvalidArgf("batch key required")
	}
	if !strings.Contains(key, "/") {
		key = rawstore.KeyFor(key)
	}

	rc, err := l.store.Get(ctx, key)
	if err != nil {
		return domain.Batch{}, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			l.log.Error().Err(cerr).Str("key", key).Msg("pipeline close raw batch")
		}
	}()

	records, err := flatten.DecodeBatch(rc)
	if err != nil {
		return domain.Batch{}, perr.Wrapf(err, perr.CodeOf(err), "load raw batch %s", key)
	}
	l.log.Debug().Str("key", key).Int("records", len(records)).Msg("pipeline loaded raw batch")
	return domain.Batch{BatchKey: key, Records: records}, nil
}
