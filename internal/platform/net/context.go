// Package net carries request scoped values between middleware and handlers
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequest stores reqID on ctx under chi's key so chimw.GetReqID and the
// access log agree on the id. Empty ids leave ctx untouched
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID reads the request id back off ctx, or "" when none was set
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}
