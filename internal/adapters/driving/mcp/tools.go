package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// defaultCrawlLimit caps links ingested by a single crawl call.
const defaultCrawlLimit = 3

// AnalyzeInput is the input schema for the analyze_idea tool.
type AnalyzeInput struct {
	Idea string `json:"idea" jsonschema:"the creative idea, plot or product to assess for copyright risk"`
}

// AnalyzeOutput is the output schema for the analyze_idea tool.
type AnalyzeOutput struct {
	Analysis   string   `json:"analysis"`
	CitedCases []string `json:"cited_cases"`
	Grounded   bool     `json:"grounded"`
	Degraded   bool     `json:"degraded"`
	Provider   string   `json:"provider,omitempty"`
}

// LearnURLInput is the input schema for the learn_url tool.
type LearnURLInput struct {
	URL   string `json:"url" jsonschema:"the case page to ingest"`
	Title string `json:"title,omitempty" jsonschema:"case title; derived from the page when empty"`
}

// LearnURLOutput is the output schema for the learn_url tool.
type LearnURLOutput struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

// CrawlInput is the input schema for the crawl tool.
type CrawlInput struct {
	URL   string `json:"url" jsonschema:"a search results page or a single case page"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of cases to ingest (default 3)"`
}

// CrawlOutput is the output schema for the crawl tool.
type CrawlOutput struct {
	Stored  int               `json:"stored"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
	Cases   []domain.CaseLink `json:"cases"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_idea",
		Description: "Assess the copyright infringement risk of an idea against stored case law",
	}, s.handleAnalyze)

	if s.ports.Ingest == nil {
		return
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "learn_url",
		Description: "Fetch a legal case page and add it to the case store",
	}, s.handleLearnURL)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "crawl",
		Description: "Discover case links from a results page and ingest them",
	}, s.handleCrawl)
}

func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	if strings.TrimSpace(input.Idea) == "" {
		return nil, AnalyzeOutput{}, fmt.Errorf("%w: idea cannot be empty", domain.ErrInvalidInput)
	}

	resp, err := s.ports.Analysis.Analyze(ctx, input.Idea)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	return nil, AnalyzeOutput{
		Analysis:   resp.Analysis,
		CitedCases: resp.CitedCases,
		Grounded:   resp.Grounded,
		Degraded:   resp.Degraded,
		Provider:   resp.Provider,
	}, nil
}

func (s *Server) handleLearnURL(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LearnURLInput,
) (*mcp.CallToolResult, LearnURLOutput, error) {
	target := strings.TrimSpace(input.URL)
	if target == "" {
		return nil, LearnURLOutput{}, fmt.Errorf("%w: url cannot be empty", domain.ErrInvalidInput)
	}

	status, err := s.ports.Ingest.IngestURL(ctx, target, input.Title)
	if err != nil {
		return nil, LearnURLOutput{}, err
	}

	return nil, LearnURLOutput{URL: target, Status: string(status)}, nil
}

func (s *Server) handleCrawl(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CrawlInput,
) (*mcp.CallToolResult, CrawlOutput, error) {
	target := strings.TrimSpace(input.URL)
	if target == "" {
		return nil, CrawlOutput{}, fmt.Errorf("%w: url cannot be empty", domain.ErrInvalidInput)
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultCrawlLimit
	}

	report, err := s.ports.Ingest.Crawl(ctx, target, limit)
	if err != nil {
		return nil, CrawlOutput{}, err
	}

	cases := report.Cases
	if cases == nil {
		cases = []domain.CaseLink{}
	}
	return nil, CrawlOutput{
		Stored:  report.Stored,
		Skipped: report.Skipped,
		Failed:  report.Failed,
		Cases:   cases,
	}, nil
}
