package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	response domain.AnalysisResponse
	err      error
	idea     string
}

func (m *mockAnalysisService) Analyze(_ context.Context, idea string) (domain.AnalysisResponse, error) {
	m.idea = idea
	return m.response, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	status     domain.IngestStatus
	report     domain.IngestReport
	count      int
	err        error
	lastURL    string
	lastTitle  string
	crawlLimit int
}

func (m *mockIngestService) Ingest(_ context.Context, _ domain.RawCase) (domain.IngestStatus, error) {
	return m.status, m.err
}

func (m *mockIngestService) IngestURL(_ context.Context, url, title string) (domain.IngestStatus, error) {
	m.lastURL, m.lastTitle = url, title
	return m.status, m.err
}

func (m *mockIngestService) IngestCSV(_ context.Context, _ io.Reader) (domain.IngestReport, error) {
	return m.report, m.err
}

func (m *mockIngestService) IngestFile(_ context.Context, _ string) (domain.IngestStatus, error) {
	return m.status, m.err
}

func (m *mockIngestService) Crawl(_ context.Context, startURL string, limit int) (domain.IngestReport, error) {
	m.lastURL, m.crawlLimit = startURL, limit
	return m.report, m.err
}

func (m *mockIngestService) Reindex(_ context.Context) (int, error) {
	return m.count, m.err
}

func (m *mockIngestService) Count(_ context.Context) (int, error) {
	return m.count, m.err
}
