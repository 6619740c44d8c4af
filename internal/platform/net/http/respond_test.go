package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	perr "spinlog/internal/platform/errors"
	pnet "spinlog/internal/platform/net"

	"github.com/goccy/go-json"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestHandleSuccessEnvelope(t *testing.T) {
	t.Parallel()

	h := Handle(func(r *stdhttp.Request) Response {
		return OK(map[string]any{"run_id": "r1"})
	})

	req := httptest.NewRequest("GET", "/v1/runs", nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), "req-9"))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.StatusCode != 200 || env.Status != "OK" {
		t.Fatalf("envelope = %+v", env)
	}
	if env.RequestID != "req-9" {
		t.Fatalf("request id = %q", env.RequestID)
	}
	data, ok := env.Data.(map[string]any)
	if !ok || data["run_id"] != "r1" {
		t.Fatalf("data = %v", env.Data)
	}
}

func TestHandleErrorEnvelope(t *testing.T) {
	t.Parallel()

	h := Handle(func(r *stdhttp.Request) Response {
		return Error(perr.NotFoundf("batch %q has no raw file", "2019-10-02"))
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/v1/runs", nil))

	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("code = %d", env.Code)
	}
	if env.Error == "" || env.Data != nil {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestHandleNoContent(t *testing.T) {
	t.Parallel()

	h := Handle(func(*stdhttp.Request) Response { return NoContent() })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("DELETE", "/x", nil))

	if rec.Code != stdhttp.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("204 wrote a body: %q", rec.Body.String())
	}
}

func TestAcceptedAndHeaders(t *testing.T) {
	t.Parallel()

	h := Handle(func(*stdhttp.Request) Response {
		resp := Accepted(map[string]string{"state": "queued"})
		resp.Header = stdhttp.Header{"X-Batch-Key": []string{"2019-10-02"}}
		return resp
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("POST", "/v1/harvest", nil))

	if rec.Code != stdhttp.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if got := rec.Header().Get("X-Batch-Key"); got != "2019-10-02" {
		t.Fatalf("header = %q", got)
	}
}
