package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	response domain.AnalysisResponse
	err      error
	ideas    []string
}

func (m *mockAnalysisService) Analyze(_ context.Context, idea string) (domain.AnalysisResponse, error) {
	m.ideas = append(m.ideas, idea)
	if strings.TrimSpace(idea) == "" {
		return domain.AnalysisResponse{}, domain.ErrInvalidInput
	}
	return m.response, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	status   domain.IngestStatus
	report   domain.IngestReport
	count    int
	err      error
	fileErrs map[string]error
	csvBody  string
	urls     []string
	files    []string
	limit    int
}

func (m *mockIngestService) Ingest(context.Context, domain.RawCase) (domain.IngestStatus, error) {
	return m.status, m.err
}

func (m *mockIngestService) IngestURL(_ context.Context, url, _ string) (domain.IngestStatus, error) {
	m.urls = append(m.urls, url)
	return m.status, m.err
}

func (m *mockIngestService) IngestCSV(_ context.Context, r io.Reader) (domain.IngestReport, error) {
	data, _ := io.ReadAll(r)
	m.csvBody = string(data)
	return m.report, m.err
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) (domain.IngestStatus, error) {
	m.files = append(m.files, path)
	if err := m.fileErrs[path]; err != nil {
		return "", err
	}
	return m.status, m.err
}

func (m *mockIngestService) Crawl(_ context.Context, url string, limit int) (domain.IngestReport, error) {
	m.urls = append(m.urls, url)
	m.limit = limit
	return m.report, m.err
}

func (m *mockIngestService) Reindex(context.Context) (int, error) {
	return m.count, m.err
}

func (m *mockIngestService) Count(context.Context) (int, error) {
	return m.count, m.err
}

// setupTestServices installs a temporary config store and service mocks,
// and returns a cleanup function.
func setupTestServices(t *testing.T, analysis *mockAnalysisService, ingest *mockIngestService) func() {
	t.Helper()
	setupTestConfig(t)
	if analysis == nil {
		analysis = &mockAnalysisService{}
	}
	if ingest == nil {
		ingest = &mockIngestService{status: domain.IngestStored}
	}
	analysisService = analysis
	ingestService = ingest
	appSettings = domain.DefaultAppSettings()
	appSettings.DataDir = "/tmp/lexguard"
	appSettings.LLMChain = []domain.LLMSettings{
		{Provider: domain.AIProviderGemini},
		{Provider: domain.AIProviderOllama},
	}

	return func() {
		configStore = nil
		analysisService = nil
		ingestService = nil
		appSettings = domain.AppSettings{}
	}
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
