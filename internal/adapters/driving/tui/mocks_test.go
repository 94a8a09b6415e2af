package tui

import (
	"context"
	"io"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// MockAnalysisService is a mock implementation of driving.AnalysisService.
type MockAnalysisService struct {
	Response domain.AnalysisResponse
	Err      error
	Calls    []string
}

func (m *MockAnalysisService) Analyze(_ context.Context, idea string) (domain.AnalysisResponse, error) {
	m.Calls = append(m.Calls, idea)
	return m.Response, m.Err
}

// MockIngestService is a mock implementation of driving.IngestService.
type MockIngestService struct {
	CaseCount int
	Err       error
}

func (m *MockIngestService) Ingest(context.Context, domain.RawCase) (domain.IngestStatus, error) {
	return domain.IngestStored, m.Err
}

func (m *MockIngestService) IngestURL(context.Context, string, string) (domain.IngestStatus, error) {
	return domain.IngestStored, m.Err
}

func (m *MockIngestService) IngestCSV(context.Context, io.Reader) (domain.IngestReport, error) {
	return domain.IngestReport{}, m.Err
}

func (m *MockIngestService) IngestFile(context.Context, string) (domain.IngestStatus, error) {
	return domain.IngestStored, m.Err
}

func (m *MockIngestService) Crawl(context.Context, string, int) (domain.IngestReport, error) {
	return domain.IngestReport{}, m.Err
}

func (m *MockIngestService) Reindex(context.Context) (int, error) {
	return 0, m.Err
}

func (m *MockIngestService) Count(context.Context) (int, error) {
	return m.CaseCount, m.Err
}
