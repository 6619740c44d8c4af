// Package http carries the response envelope and the return-style handler
// adapter the trigger API handlers are written against
package http

import (
	stdhttp "net/http"

	perr "spinlog/internal/platform/errors"
	pnet "spinlog/internal/platform/net"

	"github.com/goccy/go-json"
)

// Envelope is the one body shape every endpoint writes, success or failure
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// JSON writes body as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Response lets handlers return a value instead of writing effects
type Response struct {
	Status int
	Body   any
	// extra headers, merged before the body is written
	Header stdhttp.Header
}

// Handle adapts a Response returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (rs Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for name, vals := range rs.Header {
		for _, v := range vals {
			w.Header().Add(name, v)
		}
	}

	status := rs.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(stdhttp.StatusNoContent)
		return
	}

	env := Envelope{RequestID: pnet.RequestID(r.Context())}

	// an error body decides its own status; the envelope carries its wire form
	if err, ok := rs.Body.(error); ok && err != nil {
		wire := perr.WireFrom(err)
		status = perr.HTTPStatus(err)
		env.Code = wire.Code
		env.Error = wire.Message
	} else {
		env.Data = rs.Body
	}

	env.StatusCode = status
	env.Status = stdhttp.StatusText(status)
	JSON(w, status, env)
}

// OK wraps data in a 200
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Accepted returns a 202 response for fire-and-forget triggers
func Accepted(data any) Response { return Response{Status: stdhttp.StatusAccepted, Body: data} }

// Created wraps data in a 201
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// NoContent is a bodyless 204
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error returns a response whose status and envelope come from the error
func Error(err error) Response { return Response{Body: err} }
