package httpServer

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"nwaevents/internal/config"
	"nwaevents/internal/transport/httpServer/routers"
	"nwaevents/internal/utils/logger/sl"

	"github.com/go-chi/chi/v5"
)

type HttpServer struct {
	logger *slog.Logger
	server *http.Server
}

func NewHttpServer(logger *slog.Logger, router *routers.Router, cfg *config.Config) *HttpServer {
	mux := chi.NewRouter()
	router.Mount(mux)

	addr := net.JoinHostPort(cfg.HttpServer.Address, cfg.HttpServer.Port)

	return &HttpServer{
		logger: logger,
		// Write timeout is left unset: sync and URL-import requests wait on
		// upstream platforms and the extraction model.
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: cfg.HttpServer.Timeout,
		},
	}
}

func (s *HttpServer) Listen() {
	op := "HttpServer.Listen()"
	log := s.logger.With(slog.String("op", op))

	log.Info("http server listening", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("http server stopped", sl.Err(err))
	}
}

func (s *HttpServer) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
