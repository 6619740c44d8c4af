// Package raw is a minimal env reader for bootstrap paths.
// It must stay free of the logger package to avoid import cycles
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a namespaced view over environment variables
type Conf struct{ prefix string }

// New returns a root Conf with no prefix
func New() Conf { return Conf{} }

// Prefix narrows the view by appending to the key prefix, so
// New().Prefix("PULL_").Get("LIMIT", ...) reads PULL_LIMIT
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) env(key string) string {
	return strings.TrimSpace(os.Getenv(c.prefix + key))
}

// Get returns the trimmed env var or def when unset/empty
func (c Conf) Get(key, def string) string {
	if v := c.env(key); v != "" {
		return v
	}
	return def
}

// GetBool parses 1/true/yes as true, 0/false/no as false, else def
func (c Conf) GetBool(key string, def bool) bool {
	switch strings.ToLower(c.env(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return def
	}
}

// GetInt parses an integer with default fallback; non-numeric yields def
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.env(key))
	if err != nil {
		return def
	}
	return n
}
