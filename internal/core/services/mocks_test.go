package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService by counting vocabulary
// words, which is enough to make relevance ordering predictable.
type mockEmbedder struct {
	mu       sync.Mutex
	vocab    []string
	model    string
	embedErr error
	purposes []domain.EmbedPurpose
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{
		vocab: []string{"parody", "song", "film", "trademark", "music"},
		model: "mock-embed",
	}
}

func (m *mockEmbedder) Embed(_ context.Context, text string, purpose domain.EmbedPurpose) ([]float32, error) {
	m.mu.Lock()
	m.purposes = append(m.purposes, purpose)
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	vec := make([]float32, len(m.vocab))
	lower := strings.ToLower(text)
	for i, w := range m.vocab {
		vec[i] = float32(strings.Count(lower, w))
	}
	return vec, nil
}

func (m *mockEmbedder) Dimensions() int              { return len(m.vocab) }
func (m *mockEmbedder) ModelName() string            { return m.model }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockLLM implements driven.LLMService.
type mockLLM struct {
	model   string
	reply   string
	err     error
	calls   int
	prompts []string
	closed  bool
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string            { return m.model }
func (m *mockLLM) Ping(_ context.Context) error { return m.err }
func (m *mockLLM) Close() error                 { m.closed = true; return nil }

// mockPrompts implements driven.PromptStore.
type mockPrompts struct {
	templates map[string]string
	err       error
}

func (m *mockPrompts) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	t, ok := m.templates[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return t, nil
}

func (m *mockPrompts) Reload() {}

// mockFetcher implements driven.CaseFetcher from canned pages.
type mockFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	links   []domain.CaseLink
	fetched []string
}

func (m *mockFetcher) Fetch(_ context.Context, url string) (*domain.RawDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetched = append(m.fetched, url)
	body, ok := m.pages[url]
	if !ok {
		return nil, domain.ErrFetchFailed
	}
	return &domain.RawDocument{URI: url, MIMEType: "text/plain", Content: []byte(body)}, nil
}

func (m *mockFetcher) Discover(_ context.Context, _ string, limit int) ([]domain.CaseLink, error) {
	if limit < len(m.links) {
		return m.links[:limit], nil
	}
	return m.links, nil
}

func (m *mockFetcher) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fetched)
}
