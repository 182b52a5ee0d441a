package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"rokuserve/internal/config"
	"rokuserve/internal/logging"
)

// Server exposes the feed document and the video library over HTTP.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// New constructs the HTTP server. The handler is fully wired at construction
// time so tests can drive it without opening a listener.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logging.WithComponent(logger, "http-server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/feed", s.handleFeed)
	mux.HandleFunc("/stream/", s.handleStream)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/Videos/", http.StripPrefix("/Videos/",
		http.FileServer(http.Dir(cfg.Paths.VideosDir))))
	mux.Handle("/output/thumbnails/", http.StripPrefix("/output/thumbnails/",
		http.FileServer(http.Dir(cfg.Paths.ThumbnailsDir))))

	s.handler = withRequestLog(s.logger, withSecurityHeaders(withCORS(mux)))

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}
	return s
}

// Handler returns the fully wired handler chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Server.Bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Bind, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("http server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down and closes the listener.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}
