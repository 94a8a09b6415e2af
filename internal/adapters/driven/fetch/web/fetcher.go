// Package web fetches case pages over HTTP and discovers case links on
// search result pages.
package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.CaseFetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36"
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 20 << 20

	// caseLinkMarker identifies case pages on the source site.
	caseLinkMarker = "/doc/"

	// minLinkTextLen filters navigation anchors from result links.
	minLinkTextLen = 10
)

// Config holds configuration for the fetcher.
type Config struct {
	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds each request (default: 30s).
	Timeout time.Duration

	// Delay is the minimum gap between requests. Zero disables pacing.
	Delay time.Duration

	// MaxBytes caps the response body (default: 20 MiB).
	MaxBytes int64
}

// Fetcher downloads pages with a shared politeness limiter.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	maxBytes  int64
}

// NewFetcher creates a fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}

	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}

	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
	}
}

// Fetch downloads a single page. A non-2xx status is ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*domain.RawDocument, error) {
	body, contentType, err := f.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	return &domain.RawDocument{
		URI:      pageURL,
		MIMEType: mediaType(contentType, body),
		Content:  body,
	}, nil
}

// Discover returns up to limit case links from startURL. A start URL that is
// itself a case page is returned as the only link without a request.
func (f *Fetcher) Discover(ctx context.Context, startURL string, limit int) ([]domain.CaseLink, error) {
	if strings.Contains(startURL, caseLinkMarker) {
		logger.Debug("crawl: %s is a case page", startURL)
		return []domain.CaseLink{{URL: startURL, Title: domain.DirectLinkTitle}}, nil
	}

	base, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	body, _, err := f.get(ctx, startURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", startURL, err)
	}
	return extractCaseLinks(doc, base, limit), nil
}

func (f *Fetcher) get(ctx context.Context, pageURL string) ([]byte, string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: %s returned status %d", domain.ErrFetchFailed, pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading %s: %v", domain.ErrFetchFailed, pageURL, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// extractCaseLinks walks anchors in document order.
func extractCaseLinks(doc *html.Node, base *url.URL, limit int) []domain.CaseLink {
	var (
		links []domain.CaseLink
		seen  = make(map[string]bool)
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if limit > 0 && len(links) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			if link, ok := caseLink(n, base); ok && !seen[link.URL] {
				seen[link.URL] = true
				links = append(links, link)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

func caseLink(a *html.Node, base *url.URL) (domain.CaseLink, bool) {
	var href string
	for _, attr := range a.Attr {
		if attr.Key == "href" {
			href = strings.TrimSpace(attr.Val)
			break
		}
	}
	if !strings.Contains(href, caseLinkMarker) {
		return domain.CaseLink{}, false
	}

	title := strings.Join(strings.Fields(nodeText(a)), " ")
	if len([]rune(title)) <= minLinkTextLen {
		return domain.CaseLink{}, false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return domain.CaseLink{}, false
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	return domain.CaseLink{URL: resolved.String(), Title: title}, true
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
		b.WriteByte(' ')
	}
	return b.String()
}

// mediaType strips parameters from a Content-Type header, sniffing the body
// when the header is missing or unparseable.
func mediaType(header string, body []byte) string {
	if header != "" {
		if mt, _, err := mime.ParseMediaType(header); err == nil {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(body))
	return mt
}
