package repokit

// Binder builds a repo bound to one Queryer. Services hold the binder, not
// a repo instance, so a merge can rebind the same repo onto the transaction
// it runs in while plain reads keep using the pool
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a plain constructor into a Binder
type BindFunc[T any] func(Queryer) T

func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// RequireQueryer panics when q is nil; binding a repo to nothing is a wiring
// bug, not a runtime condition
func RequireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return q
}

// MustBind validates q then binds
func MustBind[T any](b Binder[T], q Queryer) T {
	return b.Bind(RequireQueryer(q))
}
