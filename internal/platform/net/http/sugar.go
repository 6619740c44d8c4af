package http

import "net/http"

// GetJSON mounts a body-less JSON handler on GET; health and version use it
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, JSONHandlerNoBody(h))
}

// PostJSON mounts a JSON-in JSON-out handler on POST; the run and harvest
// triggers use it
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSONHandler(h))
}
