package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	normaliser := New()
	assert.Equal(t, []string{"text/markdown", "text/x-markdown"}, normaliser.SupportedMIMETypes())
	assert.Equal(t, 50, normaliser.Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_TitleExtraction(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		uri           string
		expectedTitle string
	}{
		{
			name:          "H1 heading",
			content:       "# R.G. Anand v. Delux Films\n\nIdeas are not protected.",
			uri:           "/notes.md",
			expectedTitle: "R.G. Anand v. Delux Films",
		},
		{
			name:          "H1 with extra spaces",
			content:       "#   Spaced Title   \n\nContent",
			uri:           "/doc.md",
			expectedTitle: "Spaced Title",
		},
		{
			name:          "no heading - fallback to filename",
			content:       "Just some content without heading.",
			uri:           "/star_india-notes.md",
			expectedTitle: "star india notes",
		},
		{
			name:          "no heading and remote uri",
			content:       "## Second Level\n\nNo H1.",
			uri:           "https://example.com/case.md",
			expectedTitle: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := New().Normalise(context.Background(), &domain.RawDocument{
				URI:      tc.uri,
				MIMEType: "text/markdown",
				Content:  []byte(tc.content),
			})
			require.NoError(t, err)
			assert.Equal(t, tc.expectedTitle, result.Title)
		})
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"headings removed", "# Title\n## Subtitle\n### Third", "Title\nSubtitle\nThird"},
		{"bold removed", "This is **bold** text", "This is bold text"},
		{"links converted", "See [the judgment](https://indiankanoon.org/doc/1/)", "See the judgment"},
		{"images removed", "See ![seal](seal.png) here", "See  here"},
		{"code fences dropped, contents kept", "Before\n```\nSection 14\n```\nAfter", "Before\n\nSection 14\n\nAfter"},
		{"inline code kept", "Under `Section 51` of the Act", "Under Section 51 of the Act"},
		{"blockquotes cleaned", "> The idea is free", "The idea is free"},
		{"list markers removed", "- Item 1\n- Item 2", "Item 1\nItem 2"},
		{"numbered list markers removed", "1. First\n2. Second", "First\nSecond"},
		{"snake case preserved", "see case_file", "see case_file"},
		{"rule dropped", "Held\n---\nAppeal", "Held\n\nAppeal"},
		{"blank lines collapsed", "One\n\n\n\nTwo", "One\n\nTwo"},
		{"fence contents untouched", "```\n# not a heading\n```", "# not a heading"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text, _ := render(tc.input)
			assert.Equal(t, tc.expected, text)
		})
	}
}
