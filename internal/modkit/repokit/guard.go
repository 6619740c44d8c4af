package repokit

import (
	"context"
	"fmt"
	"time"
)

// pingTimeout bounds startup pings that arrive without a deadline
const pingTimeout = 5 * time.Second

type guarder interface{ Guard(context.Context) error }

// MustPing panics unless the dependency answers a Ping in time. The binaries
// call it at boot so a dead warehouse fails the process instead of the first
// run
func MustPing(ctx context.Context, name string, p interface{ Ping(context.Context) error }) {
	if p == nil {
		panic(fmt.Sprintf("%s: no dependency wired", name))
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		bounded, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		ctx = bounded
	}
	if err := p.Ping(ctx); err != nil {
		panic(fmt.Sprintf("%s unreachable: %v", name, err))
	}
}

// MustGuard runs the store's Guard and panics on any failure
func MustGuard(ctx context.Context, st guarder) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("store guard: %w", err))
	}
}
