package http

import "net/http"

// Handler is the function form every route in this project mounts
type Handler = func(http.ResponseWriter, *http.Request)

// Router is the slice of a mux the trigger API needs: two verbs plus
// grouping and mounting. Handlers and modules program against it so
// nothing outside this package imports chi directly
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)

	Handle(path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Route(pattern string, fn func(Router))

	Mux() http.Handler
}
