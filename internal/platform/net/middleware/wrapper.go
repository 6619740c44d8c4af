// Package middleware adapts the chi middleware we use so handlers never see chi types
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestID propagates X-Request-ID from the caller or mints one, and parks it on context
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP rewrites RemoteAddr from X-Forwarded-For so run triggers log the real client
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// Timeout cancels the request context after d. Run triggers return 202 long
// before this fires; it guards the synchronous endpoints
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// NoCache marks every response uncacheable; run state is never safe to cache
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// Heartbeat answers GET path with a bare 200 for load balancer checks
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// Throttle caps in-flight requests; anything over the cap gets an immediate 503
func Throttle(limit int) func(http.Handler) http.Handler { return chimw.Throttle(limit) }

// Defaults is the stack the trigger API mounts under /v1
func Defaults() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RealIP(),
		RequestID(),
		ScopeLogger(),
		AccessLogZerolog(AccessLogOptions{Slow: 5 * time.Second}),
		RecoverJSON,
		Throttle(32),
		NoCache(),
		Timeout(60 * time.Second),
	}
}
