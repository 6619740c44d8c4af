package store

import (
	"context"
	"errors"
	"testing"

	perr "spinlog/internal/platform/errors"
)

type memRows struct {
	names  []string
	recs   [][]any
	cursor int
	fail   error
	done   bool
}

func (r *memRows) Next() bool {
	if r.fail != nil {
		return false
	}
	r.cursor++
	return r.cursor <= len(r.recs)
}

func (r *memRows) Scan(dest ...any) error {
	rec := r.recs[r.cursor-1]
	for i := range dest {
		switch p := dest[i].(type) {
		case *string:
			*p = rec[i].(string)
		case *int:
			*p = rec[i].(int)
		case *int64:
			*p = rec[i].(int64)
		default:
			return errors.New("unsupported dest type")
		}
	}
	return nil
}

func (r *memRows) Err() error        { return r.fail }
func (r *memRows) Close()            { r.done = true }
func (r *memRows) Columns() []string { return r.names }

type memRow struct {
	out  any
	fail error
}

func (r memRow) Scan(dest ...any) error {
	if r.fail != nil {
		return r.fail
	}
	switch p := dest[0].(type) {
	case *int:
		*p = r.out.(int)
	case *int64:
		*p = r.out.(int64)
	case *string:
		*p = r.out.(string)
	}
	return nil
}

// fakeQuerier serves one canned result set / scan value
type fakeQuerier struct {
	rows     Rows
	queryErr error
	scanVal  any
	scanErr  error
}

func (f *fakeQuerier) Exec(context.Context, string, ...any) (CommandTag, error) {
	return nil, errors.New("exec not configured")
}

func (f *fakeQuerier) Query(context.Context, string, ...any) (Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeQuerier) QueryRow(context.Context, string, ...any) Row {
	return memRow{out: f.scanVal, fail: f.scanErr}
}

func scanPair(r Row) (struct{ ID, Name string }, error) {
	var out struct{ ID, Name string }
	err := r.Scan(&out.ID, &out.Name)
	return out, err
}

func TestScalar(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{scanVal: int64(12)}
	n, err := Scalar[int64](context.Background(), q, "SELECT count(*) FROM plays")
	if err != nil || n != 12 {
		t.Fatalf("Scalar = (%d, %v)", n, err)
	}

	q2 := &fakeQuerier{scanErr: errors.New("boom")}
	if _, err := Scalar[int64](context.Background(), q2, "SELECT 1"); err == nil {
		t.Fatalf("Scalar should propagate scan errors")
	}
}

func TestOne(t *testing.T) {
	t.Parallel()

	rs := &memRows{names: []string{"id", "name"}, recs: [][]any{{"a1", "Radiohead"}}}
	q := &fakeQuerier{rows: rs}

	got, err := One(context.Background(), q, scanPair, "SELECT id, name FROM artists WHERE id = $1", "a1")
	if err != nil {
		t.Fatalf("One: %v", err)
	}
	if got.ID != "a1" || got.Name != "Radiohead" {
		t.Fatalf("One mismatch: %+v", got)
	}
	if !rs.done {
		t.Fatalf("One left rows open")
	}

	// zero rows is the not-found sentinel
	q.rows = &memRows{names: []string{"id", "name"}}
	if _, err := One(context.Background(), q, scanPair, "SELECT ..."); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("One zero rows err = %v, want ErrNotFound", err)
	}

	// more than one row is a hard error
	q.rows = &memRows{names: []string{"id", "name"}, recs: [][]any{{"a1", "x"}, {"a2", "y"}}}
	if _, err := One(context.Background(), q, scanPair, "SELECT ..."); err == nil {
		t.Fatalf("One should reject multiple rows")
	}
}

func TestMany(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{rows: &memRows{
		names: []string{"id", "name"},
		recs:  [][]any{{"a1", "Radiohead"}, {"a2", "Portishead"}},
	}}

	got, err := Many(context.Background(), q, scanPair, "SELECT id, name FROM artists")
	if err != nil {
		t.Fatalf("Many: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a1" || got[1].Name != "Portishead" {
		t.Fatalf("Many mismatch: %+v", got)
	}

	// empty set is nil slice, no error
	q.rows = &memRows{names: []string{"id", "name"}}
	got, err = Many(context.Background(), q, scanPair, "SELECT ...")
	if err != nil || got != nil {
		t.Fatalf("Many empty = (%v, %v)", got, err)
	}

	// query error propagates
	q.queryErr = errors.New("query failed")
	if _, err := Many(context.Background(), q, scanPair, "SELECT ..."); err == nil {
		t.Fatalf("Many should propagate query errors")
	}
}
