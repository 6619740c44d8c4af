package store

import (
	"context"
	"fmt"

	perr "spinlog/internal/platform/errors"
)

// Scalar reads the first column of the first row into T
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var val T
	if err := q.QueryRow(ctx, sql, args...).Scan(&val); err != nil {
		var zero T
		return zero, err
	}
	return val, nil
}

// One maps exactly one row through scan. Zero rows is perr.ErrNotFound;
// extra rows are a hard error because lookups here go through natural keys
// and a duplicate means the merge let one through.
// Rows satisfies Row, so scan sees the current row position directly
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var zero T
	rs, err := q.Query(ctx, sql, args...)
	if err != nil {
		return zero, err
	}
	defer rs.Close()

	if !rs.Next() {
		if err := rs.Err(); err != nil {
			return zero, err
		}
		return zero, perr.ErrNotFound
	}
	item, err := scan(rs)
	if err != nil {
		return zero, err
	}
	if rs.Next() {
		return zero, fmt.Errorf("one: natural key matched more than one row")
	}
	return item, rs.Err()
}

// Many maps every row through scan; an empty result stays a nil slice
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	rs, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var items []T
	for rs.Next() {
		item, err := scan(rs)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rs.Err()
}
