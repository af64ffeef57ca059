// Package status serves the poll loop's health and progress over HTTP.
package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Server wraps an HTTP server with graceful shutdown.
type Server struct {
	server *http.Server
	logger *logrus.Entry
}

func NewServer(addr string, reporter Reporter, logger *logrus.Entry) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(reporter, logger),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// Start blocks until the server fails or is stopped.
func (s *Server) Start() error {
	s.logger.WithField("address", s.server.Addr).Info("Starting status server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status server: %w", err)
	}
	return nil
}

// Stop shuts the server down, waiting at most 10 seconds for open requests.
func (s *Server) Stop() error {
	s.logger.Info("Shutting down status server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Run serves until ctx is done. A failing listener is logged and Run returns
// nil so the poll loop keeps running without the endpoint.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.WithError(err).Error("Status server is down, polling continues without it")
		}
		return nil
	case <-ctx.Done():
		if err := s.Stop(); err != nil {
			s.logger.WithError(err).Warn("Status server did not shut down cleanly")
		}
		<-errCh
		return nil
	}
}
