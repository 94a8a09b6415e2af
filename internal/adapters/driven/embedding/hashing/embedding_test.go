package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestEmbed_IsDeterministicAndNormalised(t *testing.T) {
	s := NewEmbeddingService(0)
	ctx := context.Background()

	a, err := s.Embed(ctx, "A parody of a famous song", domain.PurposeQuery)
	require.NoError(t, err)
	b, err := s.Embed(ctx, "a PARODY of a famous song", domain.PurposeDocument)
	require.NoError(t, err)

	assert.Len(t, a, DefaultDimensions)
	assert.Equal(t, a, b)

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestEmbed_RelatedTextScoresHigher(t *testing.T) {
	s := NewEmbeddingService(0)
	ctx := context.Background()

	query, _ := s.Embed(ctx, "funny parody of a famous song", domain.PurposeQuery)
	related, _ := s.Embed(ctx, "The court held that a parody of the song was fair dealing", domain.PurposeDocument)
	unrelated, _ := s.Embed(ctx, "Trademark dispute over pharmaceutical packaging", domain.PurposeDocument)

	assert.Greater(t, cosine(query, related), cosine(query, unrelated))
}

func TestEmbed_StopwordsOnlyGivesZeroVector(t *testing.T) {
	vec, err := NewEmbeddingService(16).Embed(context.Background(), "the and of", domain.PurposeQuery)
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 16), vec)
}

func TestEmbed_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEmbeddingService(0).Embed(ctx, "x", domain.PurposeQuery)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestModelNameTracksDimensions(t *testing.T) {
	assert.Equal(t, "hashing-512", NewEmbeddingService(0).ModelName())
	assert.Equal(t, "hashing-64", NewEmbeddingService(64).ModelName())
	assert.NoError(t, NewEmbeddingService(64).Ping(context.Background()))
}
