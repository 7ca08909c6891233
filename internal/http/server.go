// README: API gateway; owns the gin engine and the http.Server lifecycle.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"voyage/internal/http/handlers"
	"voyage/internal/metrics"
	"voyage/internal/modules/activity"
)

const defaultRequestTimeout = 2 * time.Minute

type ServerDeps struct {
	Planner        handlers.Planner
	Log            *activity.Log
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

func NewServer(addr string, deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = defaultRequestTimeout
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(deps),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: deps.Logger,
	}
}

func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
