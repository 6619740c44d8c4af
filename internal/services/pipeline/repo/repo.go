// Package repo provides the plays fact table repository
package repo

import (
	"context"
	"time"

	"spinlog/internal/core/flatten"
	"spinlog/internal/modkit/repokit"
	perr "spinlog/internal/platform/errors"
	"spinlog/internal/services/pipeline/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the plays repository
type Storage interface {
	// MergePlays lands rows not yet present, first wins within the batch.
	// Existing table rows are never modified; the outcome's Inserted set is
	// exactly what the statement returned.
	MergePlays(ctx context.Context, rows []flatten.PlayRow) (domain.MergeOutcome, error)
}

// one statement so the index is probed once per candidate, no table scan
const mergePlaysSQL = `
	INSERT INTO plays (
		played_at, track_id, artist_id, album_id,
		track_name, artist_name, album_name, release_date,
		duration_ms, popularity, explicit, context_type
	)
	SELECT * FROM UNNEST(
		$1::timestamptz[], $2::text[], $3::text[], $4::text[],
		$5::text[], $6::text[], $7::text[], $8::text[],
		$9::bigint[], $10::int[], $11::boolean[], $12::text[]
	)
	ON CONFLICT (played_at, track_id) DO NOTHING
	RETURNING played_at, track_id`

// natural key for in batch dedupe; UnixNano sidesteps time.Time equality
type nk struct {
	at int64
	id string
}

// MergePlays implements Storage
func (s *pg) MergePlays(ctx context.Context, rows []flatten.PlayRow) (domain.MergeOutcome, error) {
	var out domain.MergeOutcome
	if len(rows) == 0 {
		return out, nil
	}

	// first wins dedupe; the statement would reject affecting one key twice
	uniq := make([]flatten.PlayRow, 0, len(rows))
	seen := make(map[nk]struct{}, len(rows))
	for _, r := range rows {
		k := nk{at: r.PlayedAt.UnixNano(), id: r.TrackID}
		if _, ok := seen[k]; ok {
			out.InBatchDups++
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, r)
	}

	playedAt := make([]time.Time, len(uniq))
	trackID := make([]string, len(uniq))
	artistID := make([]string, len(uniq))
	albumID := make([]string, len(uniq))
	trackName := make([]string, len(uniq))
	artistName := make([]string, len(uniq))
	albumName := make([]string, len(uniq))
	releaseDate := make([]string, len(uniq))
	durationMS := make([]int64, len(uniq))
	popularity := make([]int, len(uniq))
	explicit := make([]bool, len(uniq))
	contextType := make([]string, len(uniq))
	for i, r := range uniq {
		playedAt[i] = r.PlayedAt
		trackID[i] = r.TrackID
		artistID[i] = r.ArtistID
		albumID[i] = r.AlbumID
		trackName[i] = r.TrackName
		artistName[i] = r.ArtistName
		albumName[i] = r.AlbumName
		releaseDate[i] = r.ReleaseDate
		durationMS[i] = r.DurationMS
		popularity[i] = r.Popularity
		explicit[i] = r.Explicit
		contextType[i] = r.ContextType
	}

	rs, err := s.q.Query(ctx, mergePlaysSQL,
		playedAt, trackID, artistID, albumID,
		trackName, artistName, albumName, releaseDate,
		durationMS, popularity, explicit, contextType,
	)
	if err != nil {
		return out, perr.FromPostgresf(err, "pipeline merge plays")
	}
	defer rs.Close()

	for rs.Next() {
		var k domain.PlayKey
		if err := rs.Scan(&k.PlayedAt, &k.TrackID); err != nil {
			return out, perr.FromPostgresf(err, "pipeline merge plays scan")
		}
		k.PlayedAt = k.PlayedAt.UTC()
		out.Inserted = append(out.Inserted, k)
	}
	if err := rs.Err(); err != nil {
		return out, perr.FromPostgresf(err, "pipeline merge plays rows")
	}
	out.Skipped = len(uniq) - len(out.Inserted)
	return out, nil
}
