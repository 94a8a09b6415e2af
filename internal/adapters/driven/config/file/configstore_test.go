package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, content string) *ConfigStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
	store, err := NewConfigStore(path)
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_DefaultHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.toml"), store.Path())
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is [ not toml"), 0600))

	_, err := NewConfigStore(path)

	assert.Error(t, err)
}

func TestConfigStore_NestedKeysAreFlattened(t *testing.T) {
	store := newTestStore(t, `
data_dir = "/srv/lexguard"

[store]
backend = "chroma"

[llm]
chain = ["gemini", "ollama"]

[llm.ollama]
model = "llama3.2"
`)

	assert.Equal(t, "/srv/lexguard", store.GetString("data_dir"))
	assert.Equal(t, "chroma", store.GetString("store.backend"))
	assert.Equal(t, []string{"gemini", "ollama"}, store.GetStringSlice("llm.chain"))
	assert.Equal(t, "llama3.2", store.GetString("llm.ollama.model"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestStore(t, `
top_k = 5
name = "x"
delay = "1500ms"
delay_seconds = 3
`)

	assert.Equal(t, 5, store.GetInt("top_k"))
	assert.Equal(t, 0, store.GetInt("name"))
	assert.Equal(t, "", store.GetString("top_k"))
	assert.Nil(t, store.GetStringSlice("name"))

	d, ok := store.GetDuration("delay")
	assert.True(t, ok)
	assert.Equal(t, 1500*time.Millisecond, d)

	d, ok = store.GetDuration("delay_seconds")
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, d)

	_, ok = store.GetDuration("name")
	assert.False(t, ok)
	_, ok = store.GetDuration("missing")
	assert.False(t, ok)
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := newTestStore(t, "")

	val, ok := store.Get("nonexistent")

	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_SetPersistsNested(t *testing.T) {
	store := newTestStore(t, "")

	require.NoError(t, store.Set("store.backend", "sqlite"))
	require.NoError(t, store.Set("retrieval.top_k", 4))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[store]")

	reopened, err := NewConfigStore(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", reopened.GetString("store.backend"))
	assert.Equal(t, 4, reopened.GetInt("retrieval.top_k"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestStore(t, "")
	require.NoError(t, store.Set("key", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_SetCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.toml")
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("key", "value"))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestStore(t, "")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("key", "value")
		}()
		go func() {
			defer wg.Done()
			_ = store.GetString("key")
		}()
	}
	wg.Wait()

	assert.Equal(t, "value", store.GetString("key"))
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a.b.c": 1,
		"a.d":   "x",
		"e":     true,
	})

	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": 1},
			"d": "x",
		},
		"e": true,
	}, nested)
	assert.Equal(t, map[string]any{"a.b.c": 1, "a.d": "x", "e": true}, flattenMap(nested, ""))
}
