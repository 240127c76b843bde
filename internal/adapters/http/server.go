// Package http serves the quote card over HTTP using Gin.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotecard/internal/platform/config"
)

// responseMargin is the time allowed to render and write a response after
// the refresh it waited on gave up.
const responseMargin = 2 * time.Second

// CardSettings are the card values the server sizes its deadlines for.
type CardSettings struct {
	BackgroundMode string

	// RefreshTimeout bounds one refresh cycle. Zero means the router's
	// DefaultRequestTimeout applies to card requests.
	RefreshTimeout time.Duration
}

// Server serves the card page and API on a Gin engine and shuts down
// gracefully.
type Server struct {
	engine         *gin.Engine
	httpServer     *http.Server
	config         *config.ServerConfig
	card           CardSettings
	requestTimeout time.Duration
	logger         *slog.Logger
}

// New creates the server. A request that waits on a refresh is cut off
// shortly after the refresh timeout, and the write timeout is raised when
// it would end such a request before its response is written.
func New(cfg *config.ServerConfig, card CardSettings, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(maxBodySize(cfg.MaxRequestSize))

	requestTimeout := DefaultRequestTimeout
	if card.RefreshTimeout > 0 {
		requestTimeout = card.RefreshTimeout + responseMargin
	}

	writeTimeout := cfg.WriteTimeout
	if minWrite := requestTimeout + responseMargin; writeTimeout > 0 && writeTimeout < minWrite {
		logger.Info("raising write timeout to fit a waiting refresh",
			slog.Duration("configured", writeTimeout),
			slog.Duration("write_timeout", minWrite),
		)

		writeTimeout = minWrite
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		engine:         engine,
		httpServer:     httpServer,
		config:         cfg,
		card:           card,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

// Engine returns the underlying Gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Config returns the server configuration.
func (s *Server) Config() *config.ServerConfig {
	return s.config
}

// RequestTimeout is the deadline for card page and API requests.
func (s *Server) RequestTimeout() time.Duration {
	return s.requestTimeout
}

// WriteTimeout is the effective write timeout.
func (s *Server) WriteTimeout() time.Duration {
	return s.httpServer.WriteTimeout
}

// Start listens and serves on a goroutine. The returned channel receives
// a ListenAndServe failure and is closed when serving stops.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("serving quote card",
			slog.String("addr", s.httpServer.Addr),
			slog.String("background_mode", s.card.BackgroundMode),
			slog.Duration("refresh_timeout", s.card.RefreshTimeout),
			slog.Duration("request_timeout", s.requestTimeout),
			slog.Duration("write_timeout", s.httpServer.WriteTimeout),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}

		close(errCh)
	}()

	return errCh
}

// Shutdown gracefully stops the server, waiting for active connections to finish.
// The provided context controls the shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped")

	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// maxBodySize returns middleware that limits the request body size.
func maxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
