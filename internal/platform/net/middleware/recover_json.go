package middleware

import (
	stdhttp "net/http"
	"runtime/debug"
	"strings"

	perr "spinlog/internal/platform/errors"
	"spinlog/internal/platform/logger"
	pnet "spinlog/internal/platform/net"

	"github.com/goccy/go-json"
)

// panicWire is the minimal failure body; no envelope machinery runs inside
// a recover
type panicWire struct {
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// RecoverJSON turns a handler panic into a JSON 500 and logs the stack under
// the request id, so a crashing trigger never drops the connection silently
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			cause := recover()
			if cause == nil {
				return
			}

			rid := pnet.RequestID(r.Context())

			// indent continuation lines so the stack reads as one log event
			stack := strings.ReplaceAll(string(debug.Stack()), "\n", "\n\t")
			logger.C(r.Context()).Error().
				Str("request_id", rid).
				Interface("panic", cause).
				Msgf("recovered from panic\n%s", stack)

			if rid != "" {
				w.Header().Set("X-Request-ID", rid)
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(stdhttp.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(panicWire{
				StatusCode: stdhttp.StatusInternalServerError,
				Status:     stdhttp.StatusText(stdhttp.StatusInternalServerError),
				Error:      perr.PanicErrf("recovered from panic").Error(),
				RequestID:  rid,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
