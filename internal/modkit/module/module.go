// Package module holds the contract every mounted service module satisfies
// plus the registry the binaries assemble them through
package module

import (
	phttp "spinlog/internal/platform/net/http"
)

// Module is what the API binary needs from a service module: routes to
// mount, ports other modules may import, and a name for logs.
// Kept in its own package so a module exporting a ports type does not
// create an import knot with modkit
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
