package httpkit

import "net/http"

// MountUnder groups a module's routes below prefix, with the module's
// middleware stack applied to the whole group
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(group Router) {
		if len(mw) > 0 {
			group.Use(mw...)
		}
		mount(group)
	})
}
