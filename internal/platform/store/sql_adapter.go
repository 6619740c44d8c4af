package store

import (
	"context"
	"errors"
	"time"

	"spinlog/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgAdapter turns a pg.PG pool into the RowQuerier/TxRunner seam the repos
// consume. Every statement that goes through it, pooled or transactional,
// reaches the configured tracer with its elapsed time, so slow merges show
// up in the run logs without any repo level instrumentation
type pgAdapter struct {
	db *pg.PG
}

func newPGAdapter(db *pg.PG) *pgAdapter { return &pgAdapter{db: db} }

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil {
		return errors.New("pg: nil adapter")
	}
	var n int
	return a.QueryRow(ctx, "SELECT 1").Scan(&n)
}

func (a *pgAdapter) Close() error { a.db.Close(); return nil }

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	began := time.Now()
	ct, err := a.db.Pool.Exec(ctx, sql, args...)
	a.emit(ctx, sql, args, began, err)
	return tag{t: ct}, err
}

func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	began := time.Now()
	rr, err := a.db.Pool.Query(ctx, sql, args...)
	a.emit(ctx, sql, args, began, err)
	if err != nil {
		return nil, err
	}
	return rows{r: rr}, nil
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	began := time.Now()
	// pgx defers row errors to Scan, so the trace event fires there too
	hook := func(scanErr error) { a.emit(ctx, sql, args, began, scanErr) }
	return row{r: a.db.Pool.QueryRow(ctx, sql, args...), after: hook}
}

// Tx runs fn inside a transaction; fn returning an error rolls back,
// anything else commits. The Queryer handed to fn mirrors the adapter's
// tracing so merge statements inside the tx are logged like pooled ones
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	bound := txQuerier{
		tx:     tx,
		tracer: a.db.Tracer,
		slowUS: int64(a.db.SlowMs) * 1000,
	}
	if err := fn(bound); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (a *pgAdapter) emit(ctx context.Context, sql string, args []any, began time.Time, err error) {
	if a == nil || a.db == nil || a.db.Tracer == nil {
		return
	}
	us := time.Since(began).Microseconds()
	a.db.Tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: us,
		Err:       err,
		Slow:      a.db.SlowMs >= 0 && us >= int64(a.db.SlowMs)*1000,
	})
}

// minimal pgx wrappers satisfying the package seams

type row struct {
	r     pgx.Row
	after func(error)
}

func (w row) Scan(dst ...any) error {
	err := w.r.Scan(dst...)
	if w.after != nil {
		w.after(err)
	}
	return err
}

type rows struct{ r pgx.Rows }

func (w rows) Next() bool            { return w.r.Next() }
func (w rows) Scan(dst ...any) error { return w.r.Scan(dst...) }
func (w rows) Err() error            { return w.r.Err() }
func (w rows) Close()                { w.r.Close() }
func (w rows) Columns() []string {
	fds := w.r.FieldDescriptions()
	out := make([]string, len(fds))
	for i, fd := range fds {
		out[i] = string(fd.Name)
	}
	return out
}

type tag struct{ t pgconn.CommandTag }

func (g tag) String() string      { return g.t.String() }
func (g tag) RowsAffected() int64 { return g.t.RowsAffected() }

// txQuerier is the transaction bound face of the adapter
type txQuerier struct {
	tx     pgx.Tx
	tracer pg.QueryTracer
	slowUS int64
}

func (q txQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	began := time.Now()
	ct, err := q.tx.Exec(ctx, sql, args...)
	q.emit(ctx, sql, args, began, err)
	return tag{t: ct}, err
}

func (q txQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	began := time.Now()
	rr, err := q.tx.Query(ctx, sql, args...)
	q.emit(ctx, sql, args, began, err)
	if err != nil {
		return nil, err
	}
	return rows{r: rr}, nil
}

func (q txQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	began := time.Now()
	hook := func(scanErr error) { q.emit(ctx, sql, args, began, scanErr) }
	return row{r: q.tx.QueryRow(ctx, sql, args...), after: hook}
}

func (q txQuerier) emit(ctx context.Context, sql string, args []any, began time.Time, err error) {
	if q.tracer == nil {
		return
	}
	us := time.Since(began).Microseconds()
	q.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: us,
		Err:       err,
		Slow:      q.slowUS >= 0 && us >= q.slowUS,
	})
}
