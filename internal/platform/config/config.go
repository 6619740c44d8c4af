// Package config is the env-backed configuration layer.
// Modules take a Conf scoped by Prefix and read their own keys; Must*
// accessors panic at boot when a required key is absent or malformed
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"spinlog/internal/platform/logger"
)

// Conf is a namespaced view over environment variables
type Conf struct{ prefix string }

// New returns a root Conf with no prefix
func New() Conf { return Conf{} }

// Prefix returns a child Conf; prefixes accumulate left to right
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) (string, bool) {
	v, ok := os.LookupEnv(c.key(k))
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (c Conf) die(key, reason string) {
	logger.Get().Panic().
		Str("key", c.key(key)).
		Str("reason", reason).
		Msg("config: required key unusable")
}

// Require panics unless the key is set and non-empty
func (c Conf) Require(key string) {
	if _, ok := c.lookup(key); !ok {
		c.die(key, "missing")
	}
}

// MustString returns the value or panics when unset
func (c Conf) MustString(key string) string {
	v, ok := c.lookup(key)
	if !ok {
		c.die(key, "missing")
	}
	return v
}

// MustInt returns the parsed int or panics
func (c Conf) MustInt(key string) int {
	v, ok := c.lookup(key)
	if !ok {
		c.die(key, "missing")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.die(key, "not an integer")
	}
	return n
}

// MustBool returns the parsed bool or panics; accepts 1/true/yes and 0/false/no
func (c Conf) MustBool(key string) bool {
	v, ok := c.lookup(key)
	if !ok {
		c.die(key, "missing")
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	c.die(key, "not a bool")
	return false
}

// MustDuration returns the parsed time.Duration or panics
func (c Conf) MustDuration(key string) time.Duration {
	v, ok := c.lookup(key)
	if !ok {
		c.die(key, "missing")
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		c.die(key, "not a duration")
	}
	return d
}

// MustURL returns the value after validating it parses as an absolute URL
func (c Conf) MustURL(key string) string {
	v := c.MustString(key)
	u, err := url.Parse(v)
	if err != nil || u.Scheme == "" {
		c.die(key, "not an absolute url")
	}
	return v
}

// MustPort returns a port in (0, 65535] or panics
func (c Conf) MustPort(key string) int {
	n := c.MustInt(key)
	if n <= 0 || n > 65535 {
		c.die(key, "not a port")
	}
	return n
}

// MayString returns the value or def when unset
func (c Conf) MayString(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

// MayInt returns the parsed int or def when unset or malformed
func (c Conf) MayInt(key string, def int) int {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// MayBool returns the parsed bool or def when unset or malformed
func (c Conf) MayBool(key string, def bool) bool {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return def
}

// MayDuration returns the parsed duration or def when unset or malformed
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// MayFloat64 returns the parsed float or def when unset or malformed
func (c Conf) MayFloat64(key string, def float64) float64 {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
