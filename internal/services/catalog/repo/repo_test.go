package repo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"spinlog/internal/core/refs"
	"spinlog/internal/modkit/repokit"
	perr "spinlog/internal/platform/errors"
	"spinlog/internal/services/catalog/domain"
)

type fakeTag struct{ n int64 }

func (f fakeTag) String() string      { return "" }
func (f fakeTag) RowsAffected() int64 { return f.n }

type fakeRows struct {
	vals [][]any
	i    int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.vals) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.vals[r.i-1]
	for i := range dest {
		if p, ok := dest[i].(*string); ok {
			*p = row[i].(string)
		}
	}
	return nil
}

func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return nil }

type fakeQ struct {
	querySQL  []string
	queryRows *fakeRows
	queryErr  error

	execSQL  []string
	execArgs [][]any
	execTag  repokit.CommandTag
	execErr  error
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	if f.execErr != nil {
		return nil, f.execErr
	}
	if f.execTag == nil {
		return fakeTag{}, nil
	}
	return f.execTag, nil
}

func (f *fakeQ) Query(_ context.Context, sql string, _ ...any) (repokit.Rows, error) {
	f.querySQL = append(f.querySQL, sql)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if f.queryRows == nil {
		return &fakeRows{}, nil
	}
	return f.queryRows, nil
}

func (f *fakeQ) QueryRow(_ context.Context, _ string, _ ...any) repokit.Row { return nil }

func TestKeySetQueriesCategoryTable(t *testing.T) {
	t.Parallel()

	q := &fakeQ{queryRows: &fakeRows{vals: [][]any{{"a1"}, {"a2"}}}}
	st := NewPG().Bind(q)

	got, err := st.KeySet(context.Background(), refs.CategoryArtist)
	if err != nil {
		t.Fatalf("KeySet: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("keys = %v", got)
	}
	if _, ok := got["a1"]; !ok {
		t.Fatal("missing a1")
	}
	if len(q.querySQL) != 1 || !strings.Contains(q.querySQL[0], "artist_id FROM artists") {
		t.Fatalf("sql = %v", q.querySQL)
	}
}

func TestKeySetUnknownCategory(t *testing.T) {
	t.Parallel()

	st := NewPG().Bind(&fakeQ{})
	_, err := st.KeySet(context.Background(), "playlist")
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
}

func TestMergeArtistsDedupesAndInserts(t *testing.T) {
	t.Parallel()

	q := &fakeQ{execTag: fakeTag{n: 2}}
	st := NewPG().Bind(q)

	rows := []domain.DimensionRow{
		domain.ArtistRow{ID: "a1", Name: "First", Genres: []string{"pop"}, Popularity: 9, Followers: 100},
		domain.ArtistRow{ID: "a2", Name: "Second"},
		domain.ArtistRow{ID: "a1", Name: "Shadowed"},
		domain.ArtistRow{Name: "NoID"},
	}
	inserted, deduped, err := st.MergeDimensions(context.Background(), refs.CategoryArtist, rows)
	if err != nil {
		t.Fatalf("MergeDimensions: %v", err)
	}
	if inserted != 2 || deduped != 1 {
		t.Fatalf("inserted=%d deduped=%d", inserted, deduped)
	}
	if len(q.execSQL) != 1 {
		t.Fatalf("execs = %d", len(q.execSQL))
	}
	sql := q.execSQL[0]
	if !strings.Contains(sql, "INSERT INTO artists") {
		t.Fatalf("sql = %s", sql)
	}
	if !strings.Contains(sql, "ON CONFLICT (artist_id) DO NOTHING") {
		t.Fatalf("sql lacks conflict clause: %s", sql)
	}
	args := q.execArgs[0]
	if len(args) != 10 {
		t.Fatalf("args = %d, want 10 for two rows", len(args))
	}
	if args[0] != "a1" || args[1] != "First" {
		t.Fatalf("first row args = %v", args[:5])
	}
	// nil genres must land as an empty array, not NULL
	if g, ok := args[7].([]string); !ok || g == nil || len(g) != 0 {
		t.Fatalf("second row genres = %#v", args[7])
	}
}

func TestMergeAlbums(t *testing.T) {
	t.Parallel()

	q := &fakeQ{execTag: fakeTag{n: 1}}
	st := NewPG().Bind(q)

	rows := []domain.DimensionRow{
		domain.AlbumRow{ID: "al1", Name: "LP", ReleaseDate: "1999-03-02", TotalTracks: 11, Label: "Indie"},
	}
	inserted, deduped, err := st.MergeDimensions(context.Background(), refs.CategoryAlbum, rows)
	if err != nil || inserted != 1 || deduped != 0 {
		t.Fatalf("inserted=%d deduped=%d err=%v", inserted, deduped, err)
	}
	if !strings.Contains(q.execSQL[0], "INSERT INTO albums") ||
		!strings.Contains(q.execSQL[0], "ON CONFLICT (album_id) DO NOTHING") {
		t.Fatalf("sql = %s", q.execSQL[0])
	}
}

func TestMergeTracks(t *testing.T) {
	t.Parallel()

	q := &fakeQ{execTag: fakeTag{n: 1}}
	st := NewPG().Bind(q)

	rows := []domain.DimensionRow{
		domain.TrackRow{ID: "t1", Name: "Song", DurationMS: 1000, Explicit: true, Popularity: 5},
	}
	inserted, _, err := st.MergeDimensions(context.Background(), refs.CategoryTrack, rows)
	if err != nil || inserted != 1 {
		t.Fatalf("inserted=%d err=%v", inserted, err)
	}
	if !strings.Contains(q.execSQL[0], "INSERT INTO tracks") ||
		!strings.Contains(q.execSQL[0], "ON CONFLICT (track_id) DO NOTHING") {
		t.Fatalf("sql = %s", q.execSQL[0])
	}
}

func TestMergeCategoryMismatchRejected(t *testing.T) {
	t.Parallel()

	q := &fakeQ{}
	st := NewPG().Bind(q)

	rows := []domain.DimensionRow{domain.ArtistRow{ID: "a1"}}
	_, _, err := st.MergeDimensions(context.Background(), refs.CategoryTrack, rows)
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
	if len(q.execSQL) != 0 {
		t.Fatal("mismatch should not reach the database")
	}
}

func TestMergeEmptyRowsNoExec(t *testing.T) {
	t.Parallel()

	q := &fakeQ{}
	st := NewPG().Bind(q)

	inserted, deduped, err := st.MergeDimensions(context.Background(), refs.CategoryArtist, nil)
	if err != nil || inserted != 0 || deduped != 0 {
		t.Fatalf("inserted=%d deduped=%d err=%v", inserted, deduped, err)
	}
	if len(q.execSQL) != 0 {
		t.Fatal("empty merge should not reach the database")
	}
}

func TestMergeStoreErrorMapsToDB(t *testing.T) {
	t.Parallel()

	q := &fakeQ{execErr: errors.New("connection lost")}
	st := NewPG().Bind(q)

	_, _, err := st.MergeDimensions(context.Background(), refs.CategoryArtist,
		[]domain.DimensionRow{domain.ArtistRow{ID: "a1"}})
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
}
