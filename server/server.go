package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/uslanozan/asset-smith/logger"
)

const ShutdownTimeout = 10 * time.Second

// Server gin engine'ini graceful shutdown destekli bir http.Server içinde çalıştırır.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

func New(addr string, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start Shutdown çağrılana kadar bloklar. Normal kapanışta nil döner.
func (s *Server) Start() error {
	s.log.Info("asset-smith listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
