package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lottogen/application"
	"lottogen/domain/entities"
	"lottogen/domain/interfaces"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// HistoryProvider returns the current draw history, nil while none is loaded
type HistoryProvider interface {
	Current() *application.History
}

// TicketGenerator generates and delivers a run from a loaded history
type TicketGenerator interface {
	Generate(ctx context.Context, history *application.History, req application.GenerationRequest) (*entities.GenerationRun, error)
}

// RequestRecorder receives one callback per served request
type RequestRecorder interface {
	RecordHTTPRequest(ctx context.Context, method, route string, status int)
}

// ServerConfig wires the HTTP API. Runs and Metrics are optional.
type ServerConfig struct {
	History     HistoryProvider
	Generator   TicketGenerator
	Runs        interfaces.GenerationRunRepository
	Metrics     RequestRecorder
	DefaultTopK int
}

// Server exposes frequencies and ticket generation over HTTP
type Server struct {
	router      *gin.Engine
	history     HistoryProvider
	generator   TicketGenerator
	runs        interfaces.GenerationRunRepository
	metrics     RequestRecorder
	defaultTopK int
}

// NewServer creates the server and registers its routes
func NewServer(cfg ServerConfig) *Server {
	if cfg.DefaultTopK < 1 || cfg.DefaultTopK > entities.MaxNumber {
		cfg.DefaultTopK = 30
	}

	s := &Server{
		router:      gin.New(),
		history:     cfg.History,
		generator:   cfg.Generator,
		runs:        cfg.Runs,
		metrics:     cfg.Metrics,
		defaultTopK: cfg.DefaultTopK,
	}

	s.router.Use(gin.Recovery(), s.requestLogger())

	s.router.GET("/health", s.handleHealth)
	s.router.GET("/frequencies", s.handleFrequencies)
	s.router.POST("/tickets", s.handleGenerateTickets)
	s.router.GET("/runs", s.handleRecentRuns)
	s.router.GET("/runs/:id", s.handleGetRun)

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("HTTP API listening")
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		log.Info("Shutting down HTTP API...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
		return nil
	}
}

// requestLogger logs every request and reports it to the metrics recorder
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		log.WithFields(log.Fields{
			"method":      c.Request.Method,
			"route":       route,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("HTTP request served")

		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(c.Request.Context(), c.Request.Method, route, status)
		}
	}
}
