package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/bradymd/trading212/internal/logger"
)

const (
	_shutdownTimeout = 5 * time.Second
)

type HTTPServer struct {
	s *http.Server

	logger logger.Logger
}

func NewHTTPServer(ctx context.Context, port string, handler http.Handler, logger logger.Logger) *HTTPServer {
	return &HTTPServer{
		s: &http.Server{
			Handler:           handler,
			Addr:              ":" + port,
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext: func(listener net.Listener) context.Context {
				return ctx
			},
		},
		logger: logger,
	}
}

func (s *HTTPServer) Start() error {
	s.logger.Infof("http server listening on %s", s.s.Addr)
	err := s.s.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.s.Shutdown(ctx)
}

// Run serves until ctx is done. Shutdown gets its own deadline since ctx is
// already cancelled by then.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), _shutdownTimeout)
		defer cancel()
		s.logger.Infof("shutting down http server")
		return s.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
