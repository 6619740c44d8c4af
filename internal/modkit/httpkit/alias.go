// Package httpkit is the module facing face of the platform http package;
// service modules import this instead of internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "spinlog/internal/platform/net/http"
)

type (
	// Envelope is the transport envelope modules assert on in tests
	Envelope = phttp.Envelope

	// Response is the return value of trigger handlers
	Response = phttp.Response

	// Handler is the platform handler form
	Handler = phttp.Handler

	// Router is the platform routing seam
	Router = phttp.Router
)

// OK wraps data in a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Accepted returns a 202 response; the async triggers answer with it
func Accepted(data any) Response { return phttp.Accepted(data) }

// Created wraps data in a 201 response
func Created(data any) Response { return phttp.Created(data) }

// NoContent answers 204 with an empty body
func NoContent() Response { return phttp.NoContent() }

// Error maps an error onto status plus envelope
func Error(err error) Response { return phttp.Error(err) }

// Call adapts a body-less handler
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.JSONHandlerNoBody(fn)
}

// Handle adapts a Response returning function directly
func Handle(fn func(*http.Request) Response) Handler {
	return phttp.Handle(fn)
}
