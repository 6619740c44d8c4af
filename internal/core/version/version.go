// Package version exposes build identity for the /version endpoint.
package version

// Stamped at build time through -ldflags, for example
// -X 'spinlog/internal/core/version.version=v0.1.0'
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// BuildInfo is the wire shape of the build identity.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info reports the service name with whatever the build stamped in.
func Info() BuildInfo {
	return BuildInfo{
		Service: "spinlog",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}
