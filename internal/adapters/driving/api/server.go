// Package api exposes analysis and ingestion over a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/lexguard/internal/core/ports/driving"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// Default configuration values.
const (
	DefaultCrawlLimit      = 3
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string

	// CORSOrigins lists allowed origins. "*" allows any origin.
	CORSOrigins []string

	// CrawlLimit caps links ingested per crawl request (default: 3).
	CrawlLimit int

	// Version is reported by the health endpoint.
	Version string
}

// Server serves the lexguard HTTP API.
type Server struct {
	analysis driving.AnalysisService
	ingest   driving.IngestService
	cfg      Config
	engine   *gin.Engine
}

// NewServer creates a server and registers its routes.
func NewServer(analysis driving.AnalysisService, ingest driving.IngestService, cfg Config) *Server {
	if cfg.CrawlLimit <= 0 {
		cfg.CrawlLimit = DefaultCrawlLimit
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	s := &Server{
		analysis: analysis,
		ingest:   ingest,
		cfg:      cfg,
		engine:   gin.New(),
	}
	s.engine.Use(requestID(), requestLogger(), recovery(), cors(cfg.CORSOrigins))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/learn/url", s.handleLearnURL)
		api.POST("/crawl", s.handleCrawl)
		api.GET("/cases/count", s.handleCount)
	}
}

// Handler returns the router for embedding in tests or other servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http: shutdown: %v", err)
		}
	}()

	logger.Info("http: listening on %s", s.cfg.Addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
