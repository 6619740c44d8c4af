package middleware

import (
	"net/http"
	"time"

	"spinlog/internal/platform/logger"
	pnet "spinlog/internal/platform/net"
)

// ScopeLogger copies the chi request id into the logger context
// mount it after RequestID so handlers and access logs share the id
func ScopeLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithRequest(r.Context(), pnet.RequestID(r.Context()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLogOptions tunes the per-request log line
type AccessLogOptions struct {
	// Slow promotes requests taking at least this long to warn; zero keeps
	// everything at info
	Slow time.Duration
}

// statusWriter records the status and byte count the handler wrote
type statusWriter struct {
	http.ResponseWriter
	code  int
	wrote int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.code = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(b)
	sw.wrote += n
	return n, err
}

// AccessLogZerolog emits one line per request: method, path, status, bytes,
// elapsed; the line rides the request scoped logger so it carries request_id
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
			began := time.Now()

			next.ServeHTTP(sw, r)

			took := time.Since(began)
			lg := logger.C(r.Context())
			evt := lg.Info()
			if opt.Slow > 0 && took >= opt.Slow {
				evt = lg.Warn()
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.code).
				Int("bytes", sw.wrote).
				Dur("elapsed", took).
				Msg("request done")
		})
	}
}
