package store

// Config carries the backend settings the loader and API pass to Open
type Config struct {
	AppName string

	PG PGConfig
}

// PGConfig tunes postgres connectivity and statement tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
}
