package pg

import (
	"context"
	"strings"

	"spinlog/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one executed statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives an event per statement the adapter runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer builds the zerolog tracer; it pins its own level so SQL stays
// visible even when the root logger is quieter
func Tracer(root logger.Logger) QueryTracer {
	lg := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &logTracer{log: lg}
}

type logTracer struct{ log logger.Logger }

func (t *logTracer) OnQuery(_ context.Context, ev QueryEvent) {
	lvl := zerolog.InfoLevel
	if ev.Slow {
		lvl = zerolog.WarnLevel
	}
	t.log.WithLevel(lvl).
		Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds a multi-line statement onto one trimmed line
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
