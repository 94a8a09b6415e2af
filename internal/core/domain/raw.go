package domain

// RawCase is what an ingestion collaborator (CSV reader, crawler,
// manual URL submission, file drop) hands to the core.
type RawCase struct {
	// ID is an optional caller-supplied identity, e.g. a CSV row index.
	// When empty the normalizer derives one from the content.
	ID string

	URL    string
	Title  string
	Author string

	// Source is the provenance tag; defaults to SourceManual.
	Source string

	// Text is the unbounded case text.
	Text string
}

// RawDocument represents opaque bytes fetched from a URL or read from disk.
// It is converted to text by a Normaliser before becoming a RawCase.
type RawDocument struct {
	// URI is the original location (file path or URL).
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// CaseLink is a candidate case page discovered by the crawler.
type CaseLink struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// DirectLinkTitle marks a crawl start URL that is itself a case page.
// Its real title is derived when the page is fetched.
const DirectLinkTitle = "Direct Link Case"
