// Package repo provides the catalog dimension tables repository
package repo

import (
	"context"
	"fmt"
	"strings"

	"spinlog/internal/core/refs"
	"spinlog/internal/modkit/repokit"
	perr "spinlog/internal/platform/errors"
	"spinlog/internal/services/catalog/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the dimension tables repository
type Storage interface {
	// KeySet returns every id already present for cat
	KeySet(ctx context.Context, cat refs.Category) (map[string]struct{}, error)

	// MergeDimensions inserts rows not yet present for cat and reports how
	// many landed plus how many in batch duplicates collapsed first wins.
	// Existing table rows are never touched.
	MergeDimensions(ctx context.Context, cat refs.Category, rows []domain.DimensionRow) (inserted, deduped int, err error)
}

func tableFor(cat refs.Category) (table, idCol string, err error) {
	switch cat {
	case refs.CategoryArtist:
		return "artists", "artist_id", nil
	case refs.CategoryAlbum:
		return "albums", "album_id", nil
	case refs.CategoryTrack:
		return "tracks", "track_id", nil
	}
	return "", "", perr.InvalidArgf("unknown category %q", cat)
}

// KeySet implements Storage
func (s *pg) KeySet(ctx context.Context, cat refs.Category) (map[string]struct{}, error) {
	table, idCol, err := tableFor(cat)
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, fmt.Sprintf("SELECT %s FROM %s", idCol, table))
	if err != nil {
		return nil, perr.FromPostgresf(err, "catalog keyset %s", cat)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, perr.FromPostgresf(err, "catalog keyset scan %s", cat)
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgresf(err, "catalog keyset rows %s", cat)
	}
	return out, nil
}

// MergeDimensions implements Storage
func (s *pg) MergeDimensions(
	ctx context.Context,
	cat refs.Category,
	rows []domain.DimensionRow,
) (int, int, error) {
	if _, _, err := tableFor(cat); err != nil {
		return 0, 0, err
	}
	uniq, deduped, err := dedupeFirstWins(cat, rows)
	if err != nil {
		return 0, 0, err
	}
	if len(uniq) == 0 {
		return 0, deduped, nil
	}

	var inserted int
	switch cat {
	case refs.CategoryArtist:
		inserted, err = s.mergeArtists(ctx, uniq)
	case refs.CategoryAlbum:
		inserted, err = s.mergeAlbums(ctx, uniq)
	case refs.CategoryTrack:
		inserted, err = s.mergeTracks(ctx, uniq)
	}
	if err != nil {
		return 0, deduped, err
	}
	return inserted, deduped, nil
}

// dedupeFirstWins collapses repeated ids keeping the first occurrence and
// rejects rows tagged with the wrong category. Rows with no id are dropped;
// they cannot merge.
func dedupeFirstWins(cat refs.Category, rows []domain.DimensionRow) ([]domain.DimensionRow, int, error) {
	uniq := make([]domain.DimensionRow, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	deduped := 0
	for _, r := range rows {
		if r.Category() != cat {
			return nil, 0, perr.InvalidArgf("row category %q does not match merge category %q", r.Category(), cat)
		}
		id := r.EntityID()
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			deduped++
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, r)
	}
	return uniq, deduped, nil
}

func (s *pg) mergeArtists(ctx context.Context, rows []domain.DimensionRow) (int, error) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO artists (artist_id, name, genres, popularity, followers) VALUES `)
	args := make([]any, 0, len(rows)*5)
	for i, r := range rows {
		a, ok := r.(domain.ArtistRow)
		if !ok {
			return 0, perr.InvalidArgf("artist merge got %T", r)
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*5 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d)", base, base+1, base+2, base+3, base+4)
		genres := a.Genres
		if genres == nil {
			genres = []string{}
		}
		args = append(args, a.ID, a.Name, genres, a.Popularity, a.Followers)
	}
	sb.WriteString(` ON CONFLICT (artist_id) DO NOTHING`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, perr.FromPostgresf(err, "catalog merge artists")
	}
	return int(tag.RowsAffected()), nil
}

func (s *pg) mergeAlbums(ctx context.Context, rows []domain.DimensionRow) (int, error) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO albums (album_id, name, release_date, total_tracks, label) VALUES `)
	args := make([]any, 0, len(rows)*5)
	for i, r := range rows {
		a, ok := r.(domain.AlbumRow)
		if !ok {
			return 0, perr.InvalidArgf("album merge got %T", r)
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*5 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d)", base, base+1, base+2, base+3, base+4)
		args = append(args, a.ID, a.Name, a.ReleaseDate, a.TotalTracks, a.Label)
	}
	sb.WriteString(` ON CONFLICT (album_id) DO NOTHING`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, perr.FromPostgresf(err, "catalog merge albums")
	}
	return int(tag.RowsAffected()), nil
}

func (s *pg) mergeTracks(ctx context.Context, rows []domain.DimensionRow) (int, error) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO tracks (track_id, name, duration_ms, explicit, popularity) VALUES `)
	args := make([]any, 0, len(rows)*5)
	for i, r := range rows {
		tr, ok := r.(domain.TrackRow)
		if !ok {
			return 0, perr.InvalidArgf("track merge got %T", r)
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*5 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d)", base, base+1, base+2, base+3, base+4)
		args = append(args, tr.ID, tr.Name, tr.DurationMS, tr.Explicit, tr.Popularity)
	}
	sb.WriteString(` ON CONFLICT (track_id) DO NOTHING`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, perr.FromPostgresf(err, "catalog merge tracks")
	}
	return int(tag.RowsAffected()), nil
}
