package server

import (
	"context"
	"errors"
	stdhttp "net/http"

	"github.com/MKhiriev/cybucks/internal/config"
	"github.com/MKhiriev/cybucks/internal/logger"
)

type httpServer struct {
	server *stdhttp.Server
	logger *logger.Logger
}

func newHTTPServer(router stdhttp.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	return &httpServer{
		server: &stdhttp.Server{
			Addr:         cfg.HTTPAddress,
			Handler:      router,
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

func (h *httpServer) RunServer() {
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		h.logger.Err(err).Msg("HTTP server ListenAndServe")
	}
}

func (h *httpServer) Shutdown() {
	if err := h.server.Shutdown(context.Background()); err != nil {
		h.logger.Err(err).Msg("HTTP server Shutdown")
	}
}
