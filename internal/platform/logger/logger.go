// Package logger wraps zerolog behind process-wide and run-scoped accessors
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"spinlog/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the root logger
type Options struct {
	Level        string
	Format       string
	Service      string
	Writer       io.Writer
	WithCaller   bool
	StaticFields map[string]string
}

// FromEnv builds Options from LOG_* env vars using the raw reader (no cycles)
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:      strings.ToLower(env.Get("LEVEL", "debug")),
		Format:     strings.ToLower(env.Get("FORMAT", "console")),
		Service:    env.Get("SERVICE", ""),
		WithCaller: env.GetBool("CALLER", false),
	}
}

var (
	initOnce sync.Once
	root     atomic.Pointer[zerolog.Logger]
	ready    atomic.Bool
)

// Logger is the project logging type; today an alias for zerolog.Logger
type Logger = zerolog.Logger

// Get returns the process-wide root logger, initializing from env on first use
func Get() *Logger {
	if !ready.Load() {
		Init(FromEnv())
	}
	return root.Load()
}

// sink picks the output writer; console format wraps it for humans
func sink(opt Options) io.Writer {
	w := opt.Writer
	if w == nil {
		w = os.Stdout
	}
	if opt.Format == "console" {
		return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return w
}

// Init configures zerolog and installs the root logger; only the first call wins
func Init(opt Options) {
	initOnce.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		base := zerolog.New(sink(opt)).Level(parseLevel(opt.Level)).With().Timestamp()
		if bi, ok := debug.ReadBuildInfo(); ok {
			base = base.Str("go_version", bi.GoVersion)
		}
		if opt.Service != "" {
			base = base.Str("service", opt.Service)
		}
		for k, v := range opt.StaticFields {
			base = base.Str(k, v)
		}

		lg := base.Logger()
		if opt.WithCaller {
			lg = lg.With().Caller().Logger()
		}

		root.Store(&lg)
		ready.Store(true)
	})
}

// parseLevel maps LOG_LEVEL onto zerolog, defaulting unknowns to debug
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	if lvl, err := zerolog.ParseLevel(s); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.DebugLevel
}

type ctxKey string

const (
	keyRequestID ctxKey = "request_id"
	keyRunID     ctxKey = "run_id"
)

// WithRequest annotates ctx with a request id for the trigger API
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRequestID, reqID)
}

// WithRun annotates ctx with a pipeline run id
func WithRun(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRunID, runID)
}

// C returns a child logger enriched with request_id and run_id from ctx
func C(ctx context.Context) *Logger {
	with := Get().With()
	if s, _ := ctx.Value(keyRequestID).(string); s != "" {
		with = with.Str("request_id", s)
	}
	if s, _ := ctx.Value(keyRunID).(string); s != "" {
		with = with.Str("run_id", s)
	}
	child := with.Logger()
	return &child
}

// Named returns a child logger carrying a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	child := Get().With().Str("component", component).Logger()
	return &child
}
