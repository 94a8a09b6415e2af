package chroma

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

const collectionsPath = "/api/v2/tenants/default_tenant/databases/default_database/collections"

// fakeChroma answers collection creation and count for one collection.
type fakeChroma struct {
	mu      sync.Mutex
	created []string
}

func (f *fakeChroma) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == collectionsPath:
		var body struct {
			Name string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.created = append(f.created, body.Name)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       "c1",
			"name":     body.Name,
			"tenant":   "default_tenant",
			"database": "default_database",
		})
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/collections/c1/count"):
		_, _ = w.Write([]byte("4"))
	default:
		http.NotFound(w, r)
	}
}

func TestNewStore_OpensCollectionWithCallerEmbedder(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	fake := &fakeChroma{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	s, err := NewStore(context.Background(), srv.URL, "", &stubEmbedder{vec: []float32{1, 0}, model: "m"})
	require.NoError(t, err)
	defer s.Close()

	fake.mu.Lock()
	assert.Equal(t, []string{domain.DefaultCollection}, fake.created)
	fake.mu.Unlock()

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestNewStore_RequiresEmbedder(t *testing.T) {
	_, err := NewStore(context.Background(), "http://127.0.0.1:1", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewStore_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewStore(context.Background(), url, "cases", &stubEmbedder{vec: []float32{1}})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

// purposeEmbedder records the purpose of every call.
type purposeEmbedder struct {
	stubEmbedder
	purposes []domain.EmbedPurpose
}

func (e *purposeEmbedder) Embed(ctx context.Context, text string, p domain.EmbedPurpose) ([]float32, error) {
	e.purposes = append(e.purposes, p)
	return e.stubEmbedder.Embed(ctx, text, p)
}

func TestEmbeddingFunction_Purposes(t *testing.T) {
	ctx := context.Background()
	emb := &purposeEmbedder{stubEmbedder: stubEmbedder{vec: []float32{0.6, 0.8}}}
	ef := newEmbeddingFunction(emb)

	docs, err := ef.EmbedDocuments(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, []float32{0.6, 0.8}, docs[0].ContentAsFloat32())

	q, err := ef.EmbedQuery(ctx, "parody")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.6, 0.8}, q.ContentAsFloat32())

	assert.Equal(t, []domain.EmbedPurpose{domain.PurposeDocument, domain.PurposeDocument, domain.PurposeQuery}, emb.purposes)
}

func TestEmbeddingFunction_Error(t *testing.T) {
	ef := newEmbeddingFunction(&stubEmbedder{err: errors.New("quota")})

	_, err := ef.EmbedDocuments(context.Background(), []string{"a"})
	assert.Error(t, err)
	_, err = ef.EmbedQuery(context.Background(), "a")
	assert.Error(t, err)
}
