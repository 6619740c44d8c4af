package http

import (
	"net/http"

	"spinlog/internal/platform/net/http/bind"
)

// finish turns a handler result into a Response. Handlers may return a
// ready Response (Accepted for run triggers), any other value is wrapped
// in a 200 envelope
func finish(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}

// JSONHandler binds the request body into T, validates it, and calls fn
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return finish(fn(r, in))
	})
}

// JSONHandlerNoBody is JSONHandler for endpoints that take no payload
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		return finish(fn(r))
	})
}
