package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"spinlog/internal/platform/config"
	"spinlog/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server pairs a chi mux with a stdlib http.Server for the trigger API
type Server struct {
	mux *chi.Mux
	srv *stdhttp.Server
}

// NewServer builds the server; opts receive the raw *chi.Mux so callers can
// hang middleware and routes before Run
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	mux := chi.NewRouter()
	for _, mount := range opts {
		mount(mux)
	}
	return &Server{
		mux: mux,
		srv: &stdhttp.Server{
			Addr:              cfg.MayString("ADDR", ":8080"),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router returns the platform Router facade over the mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr reports the configured listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Run blocks serving until Shutdown or a listener error
func (s *Server) Run(ctx context.Context) error {
	logger.Named("http").Info().Str("addr", s.srv.Addr).Msg("http listening")
	err := s.srv.ListenAndServe()
	if errors.Is(err, stdhttp.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
