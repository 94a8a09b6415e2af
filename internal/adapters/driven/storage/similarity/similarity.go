// Package similarity holds the brute-force ranking shared by the local
// vector stores.
package similarity

import (
	"math"
	"sort"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// Cosine returns the cosine similarity of a and b, or 0 when the vectors
// differ in length or either has zero magnitude.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Comparable reports whether a stored chunk can be scored against q.
func Comparable(chunk domain.StoredChunk, q domain.VectorQuery) bool {
	if len(chunk.Embedding) == 0 || len(chunk.Embedding) != len(q.Embedding) {
		return false
	}
	return q.Model == "" || chunk.Model == "" || chunk.Model == q.Model
}

// TopK sorts hits by descending score and keeps the first k.
// Ties keep insertion order.
func TopK(hits []domain.RetrievalHit, k int) []domain.RetrievalHit {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
