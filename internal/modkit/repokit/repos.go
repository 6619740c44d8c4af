// Package repokit holds the shared repo surface: store seam aliases, the
// binder that rebinds repos onto transactions, and the begin hooks the
// merge paths install on their tx
package repokit

import (
	"context"

	"spinlog/internal/platform/store"
)

// Queryer is what a repo needs to run SQL, pooled or inside a tx
type Queryer = store.RowQuerier

// TxRunner starts transactions; the merge paths are its callers
type TxRunner = store.TxRunner

type (
	// Rows is a streamed result set
	Rows = store.Rows

	// Row is a single row scan
	Row = store.Row

	// CommandTag reports rows affected; the append-only merges read it
	CommandTag = store.CommandTag
)

// WithTx runs fn inside one transaction; an error from fn rolls back
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}
