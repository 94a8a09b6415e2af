package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
	"github.com/custodia-labs/lexguard/internal/core/ports/driving"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultCrawlLimit is the number of cases learned per crawl.
const DefaultCrawlLimit = 3

// CSV column names.
const (
	csvColumnURL    = "case_url"
	csvColumnTitle  = "case_title"
	csvColumnAuthor = "case_author"
)

// fileMIMETypes covers extensions the mime package may not know.
var fileMIMETypes = map[string]string{
	".txt":      "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".html":     "text/html",
	".htm":      "text/html",
	".pdf":      "application/pdf",
}

// IngestService feeds cases into the vector store.
type IngestService struct {
	store       driven.VectorStore
	embedder    driven.EmbeddingService
	normalizer  *Normalizer
	normalisers driven.NormaliserRegistry
	fetcher     driven.CaseFetcher
}

// NewIngestService creates an ingestion service.
// The embedder, normalisers and fetcher are optional.
func NewIngestService(
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	normalizer *Normalizer,
	normalisers driven.NormaliserRegistry,
	fetcher driven.CaseFetcher,
) *IngestService {
	if normalizer == nil {
		normalizer = NewNormalizer(domain.DefaultMaxChars)
	}
	return &IngestService{
		store:       store,
		embedder:    embedder,
		normalizer:  normalizer,
		normalisers: normalisers,
		fetcher:     fetcher,
	}
}

// Ingest normalises, embeds and stores one case.
// An embedding failure does not stop ingestion: the chunk is handed to the
// store without a vector and the store decides whether it can embed it.
func (s *IngestService) Ingest(ctx context.Context, raw domain.RawCase) (domain.IngestStatus, error) {
	chunk, ok := s.normalizer.Normalize(raw)
	if !ok {
		logger.Warn("ingest: %s has no text", describe(raw))
		return "", domain.ErrEmptyContent
	}

	exists, err := s.store.Exists(ctx, chunk.ID)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", chunk.ID, err)
	}
	if exists {
		logger.Info("ingest: skipping %q (already indexed)", chunk.Metadata.Title)
		return domain.IngestAlreadyIndexed, nil
	}

	if s.embedder != nil {
		vec, err := s.embedder.Embed(ctx, chunk.Content, domain.PurposeDocument)
		if err != nil {
			logger.Warn("ingest: embedding %q failed: %v", chunk.Metadata.Title, err)
		} else {
			chunk.Embedding = vec
			chunk.Model = s.embedder.ModelName()
		}
	}

	inserted, err := s.store.Upsert(ctx, chunk)
	if err != nil {
		logger.Error("ingest: storing %q failed: %v", chunk.Metadata.Title, err)
		return "", fmt.Errorf("storing %s: %w", chunk.ID, err)
	}
	if !inserted {
		return domain.IngestAlreadyIndexed, nil
	}

	logger.Info("ingest: stored %q from %s", chunk.Metadata.Title, sourceOf(chunk.Metadata.URL))
	return domain.IngestStored, nil
}

// IngestURL fetches a case page and stores it under an ID derived from the
// URL, so learning the same page twice skips the fetch.
func (s *IngestService) IngestURL(ctx context.Context, url, title string) (domain.IngestStatus, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}

	id := URLID(url)
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", id, err)
	}
	if exists {
		logger.Info("ingest: skipping %s (already indexed)", url)
		return domain.IngestAlreadyIndexed, nil
	}

	text, pageTitle, err := s.fetchCase(ctx, url)
	if err != nil {
		return "", err
	}
	if title == "" {
		title = pageTitle
	}

	return s.Ingest(ctx, domain.RawCase{
		ID:     id,
		URL:    url,
		Title:  title,
		Source: domain.SourceAutonomousLearning,
		Text:   text,
	})
}

// IngestCSV reads a case list. Each data row's zero-based index is its
// document ID; rows already stored are skipped before any fetch. Row
// failures are logged and counted, not returned.
func (s *IngestService) IngestCSV(ctx context.Context, r io.Reader) (domain.IngestReport, error) {
	var report domain.IngestReport

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return report, fmt.Errorf("%w: reading csv header: %w", domain.ErrInvalidInput, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	if _, ok := cols[csvColumnURL]; !ok {
		return report, fmt.Errorf("%w: csv has no %s column", domain.ErrInvalidInput, csvColumnURL)
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	for idx := 0; ; idx++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn("ingest: csv row %d unreadable: %v", idx, err)
			report.Failed++
			continue
		}

		raw := domain.RawCase{
			ID:     strconv.Itoa(idx),
			URL:    field(rec, csvColumnURL),
			Title:  field(rec, csvColumnTitle),
			Author: field(rec, csvColumnAuthor),
			Source: domain.SourceCaseList,
		}
		status, err := s.ingestRow(ctx, raw)
		if err != nil {
			logger.Warn("ingest: csv row %d (%s): %v", idx, raw.URL, err)
		}
		report.Add(status, err)
	}

	logger.Info("ingest: csv done, %d stored, %d skipped, %d failed", report.Stored, report.Skipped, report.Failed)
	return report, nil
}

func (s *IngestService) ingestRow(ctx context.Context, raw domain.RawCase) (domain.IngestStatus, error) {
	exists, err := s.store.Exists(ctx, raw.ID)
	if err != nil {
		return "", err
	}
	if exists {
		logger.Info("ingest: skipping %q (already indexed)", raw.Title)
		return domain.IngestAlreadyIndexed, nil
	}
	if raw.URL == "" {
		return "", fmt.Errorf("%w: empty %s", domain.ErrInvalidInput, csvColumnURL)
	}

	text, pageTitle, err := s.fetchCase(ctx, raw.URL)
	if err != nil {
		return "", err
	}
	if raw.Title == "" {
		raw.Title = pageTitle
	}
	raw.Text = text
	return s.Ingest(ctx, raw)
}

// IngestFile stores a local case file. The ID is derived from the absolute
// path and content, so an unchanged file is ingested once.
func (s *IngestService) IngestFile(ctx context.Context, path string) (domain.IngestStatus, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", abs, err)
	}

	res, err := s.normalise(ctx, &domain.RawDocument{
		URI:      abs,
		MIMEType: MIMETypeForPath(abs),
		Content:  content,
	})
	if err != nil {
		return "", err
	}

	return s.Ingest(ctx, domain.RawCase{
		ID:     "file_" + hashHex(abs, string(content)),
		URL:    "file://" + filepath.ToSlash(abs),
		Title:  res.Title,
		Source: domain.SourceLocalFile,
		Text:   res.Text,
	})
}

// Crawl discovers case links from startURL and learns each one.
// The fetcher paces requests; Crawl itself does not sleep.
func (s *IngestService) Crawl(ctx context.Context, startURL string, limit int) (domain.IngestReport, error) {
	var report domain.IngestReport
	if s.fetcher == nil {
		return report, fmt.Errorf("%w: no fetcher configured", domain.ErrFetchFailed)
	}
	if limit <= 0 {
		limit = DefaultCrawlLimit
	}

	logger.Info("crawl: scouting %s for new cases", startURL)
	links, err := s.fetcher.Discover(ctx, startURL, limit)
	if err != nil {
		return report, fmt.Errorf("discovering cases: %w", err)
	}
	report.Cases = links

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		title := link.Title
		if title == domain.DirectLinkTitle {
			title = ""
		}
		status, err := s.IngestURL(ctx, link.URL, title)
		if err != nil {
			logger.Warn("crawl: learning %s failed: %v", link.URL, err)
		}
		report.Add(status, err)
	}

	logger.Info("crawl: learned %d new cases from %s", report.Stored, startURL)
	return report, nil
}

// Reindex refreshes stored vectors when the store supports it.
func (s *IngestService) Reindex(ctx context.Context) (int, error) {
	re, ok := s.store.(driven.Reembedder)
	if !ok {
		return 0, fmt.Errorf("%w: store backend cannot reindex", domain.ErrUnsupportedType)
	}
	return re.Reembed(ctx)
}

// Count returns the number of stored cases.
func (s *IngestService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// fetchCase downloads and normalises a page.
func (s *IngestService) fetchCase(ctx context.Context, url string) (text, title string, err error) {
	if s.fetcher == nil {
		return "", "", fmt.Errorf("%w: no fetcher configured", domain.ErrFetchFailed)
	}
	raw, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", "", err
	}
	res, err := s.normalise(ctx, raw)
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(res.Text) == "" {
		return "", "", fmt.Errorf("%s: %w", url, domain.ErrEmptyContent)
	}
	return res.Text, res.Title, nil
}

func (s *IngestService) normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if s.normalisers == nil {
		return &driven.NormaliseResult{Text: string(raw.Content)}, nil
	}
	res, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalising %s: %w", raw.URI, err)
	}
	return res, nil
}

// MIMETypeForPath guesses a MIME type from a file extension.
func MIMETypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := fileMIMETypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		mt, _, err := mime.ParseMediaType(t)
		if err == nil {
			return mt
		}
	}
	return "application/octet-stream"
}

func describe(raw domain.RawCase) string {
	switch {
	case raw.Title != "":
		return strconv.Quote(raw.Title)
	case raw.URL != "":
		return raw.URL
	default:
		return "case"
	}
}

func sourceOf(url string) string {
	if url == "" {
		return "Unknown Source"
	}
	return url
}
