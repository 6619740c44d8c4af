package httpkit

import (
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	phttp "spinlog/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func newRouter() Router { return phttp.AdaptChi(chi.NewRouter()) }

func TestMountUnderAppliesPrefixAndMiddleware(t *testing.T) {
	t.Parallel()

	r := newRouter()
	MountUnder(r, "/v1", []func(stdhttp.Handler) stdhttp.Handler{
		func(next stdhttp.Handler) stdhttp.Handler {
			return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
				w.Header().Set("X-Module", "pipeline")
				next.ServeHTTP(w, req)
			})
		},
	}, func(sub Router) {
		Get(sub, "/runs", func(*stdhttp.Request) (any, error) {
			return []string{}, nil
		})
	})

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/runs", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Module") != "pipeline" {
		t.Fatalf("module middleware not applied")
	}
}

func TestPostJSONBindsBody(t *testing.T) {
	t.Parallel()

	type req struct {
		Day string `json:"day" validate:"required"`
	}

	r := newRouter()
	PostJSON(r, "/harvest", func(_ *stdhttp.Request, in req) (any, error) {
		return map[string]string{"day": in.Day}, nil
	})

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest("POST", "/harvest", strings.NewReader(`{"day":"2020-06-01"}`)))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "2020-06-01") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestCallWrapsResponses(t *testing.T) {
	t.Parallel()

	r := newRouter()
	Post(r, "/trigger", func(*stdhttp.Request) (any, error) {
		return Accepted("queued"), nil
	})

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest("POST", "/trigger", nil))
	if rec.Code != stdhttp.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
}
