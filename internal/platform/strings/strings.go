// Package strings carries the tiny string guards used when wiring modules
package strings

import std "strings"

// MustString panics when s is blank; name identifies the missing value in
// the panic so a bad env var is obvious at boot
func MustString(s, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix canonicalizes a mount root such as /runs: one leading slash,
// no trailing slash. A value that trims down to nothing panics because the
// router cannot mount an empty group
func MustPrefix(s string) string {
	trimmed := std.Trim(std.TrimSpace(s), " /")
	if trimmed == "" {
		panic("root path is required")
	}
	return "/" + trimmed
}
