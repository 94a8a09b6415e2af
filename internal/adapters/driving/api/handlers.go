package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// Response messages.
const (
	msgRunning     = "Legal AI Backend is running"
	msgEmptyIdea   = "Idea cannot be empty"
	msgEmptyURL    = "URL cannot be empty"
	msgInternal    = "Internal server error"
	msgIngested    = "Successfully ingested content from verified URL."
	msgIngestFail  = "Failed to ingest content. Check URL or content accessibility."
	msgCrawlFormat = "Successfully scouted and learned %d new potential cases."
)

type analyzeRequest struct {
	Idea string `json:"idea"`
}

type urlRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type crawlRequest struct {
	URL   string `json:"url"`
	Limit int    `json:"limit,omitempty"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": msgRunning})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "lexguard",
		"version": s.cfg.Version,
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Idea) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgEmptyIdea})
		return
	}

	resp, err := s.analysis.Analyze(c.Request.Context(), req.Idea)
	if errors.Is(err, domain.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgEmptyIdea})
		return
	}
	if err != nil {
		s.internalError(c, "analyze", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleLearnURL(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}
	target := strings.TrimSpace(req.URL)
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgEmptyURL})
		return
	}

	status, err := s.ingest.IngestURL(c.Request.Context(), target, req.Title)
	if err != nil {
		if isIngestFailure(err) {
			logger.Warn("http: learn %s: %v", target, err)
			c.JSON(http.StatusBadRequest, gin.H{"detail": msgIngestFail})
			return
		}
		s.internalError(c, "learn", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": msgIngested,
		"url":     target,
		"status":  status,
	})
}

func (s *Server) handleCrawl(c *gin.Context) {
	var req crawlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}
	target := strings.TrimSpace(req.URL)
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgEmptyURL})
		return
	}
	limit := req.Limit
	if limit <= 0 || limit > s.cfg.CrawlLimit {
		limit = s.cfg.CrawlLimit
	}

	report, err := s.ingest.Crawl(c.Request.Context(), target, limit)
	if err != nil {
		if isIngestFailure(err) {
			logger.Warn("http: crawl %s: %v", target, err)
			c.JSON(http.StatusBadRequest, gin.H{"detail": msgIngestFail})
			return
		}
		s.internalError(c, "crawl", err)
		return
	}

	cases := report.Cases
	if cases == nil {
		cases = []domain.CaseLink{}
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf(msgCrawlFormat, report.Stored),
		"cases":   cases,
		"stored":  report.Stored,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	})
}

func (s *Server) handleCount(c *gin.Context) {
	n, err := s.ingest.Count(c.Request.Context())
	if err != nil {
		s.internalError(c, "count", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// internalError logs the cause and hides it from the client.
func (s *Server) internalError(c *gin.Context, op string, err error) {
	logger.Error("http: %s id=%s: %v", op, c.GetString(requestIDKey), err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": msgInternal})
}

func isIngestFailure(err error) bool {
	return errors.Is(err, domain.ErrFetchFailed) ||
		errors.Is(err, domain.ErrEmptyContent) ||
		errors.Is(err, domain.ErrUnsupportedType) ||
		errors.Is(err, domain.ErrInvalidInput)
}
