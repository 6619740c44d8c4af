package repokit

import "context"

// BeginHook runs right after a transaction opens, against the tx bound
// Queryer. The merge paths install one that issues SET LOCAL
// statement_timeout so a wedged insert cannot hold its locks indefinitely
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks decorates runner so every Tx runs hooks before fn.
// A hook error aborts the transaction before fn ever sees it
func WithBeginHooks(runner TxRunner, hooks ...BeginHook) TxRunner {
	return hookedTx{runner: runner, hooks: hooks}
}

type hookedTx struct {
	runner TxRunner
	hooks  []BeginHook
}

func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.runner.Tx(ctx, func(q Queryer) error {
		for _, hook := range h.hooks {
			if err := hook(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

// non-tx calls pass straight through; hooks are transaction state only

func (h hookedTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return h.runner.Exec(ctx, sql, args...)
}

func (h hookedTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return h.runner.Query(ctx, sql, args...)
}

func (h hookedTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return h.runner.QueryRow(ctx, sql, args...)
}
