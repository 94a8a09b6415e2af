package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/lexguard/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/lexguard/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// Ensure Store implements the interfaces.
var (
	_ driven.VectorStore = (*Store)(nil)
	_ driven.Reembedder  = (*Store)(nil)
)

const chunkColumns = `id, content, embedding, model, title, url, author, source, ingested_at`

// Store is the SQLite-backed vector store.
type Store struct {
	db       *sql.DB
	path     string
	writeMu  sync.Mutex
	embedder driven.EmbeddingService
}

// NewStore opens (or creates) <dataDir>/<collection>.db.
// dataDir must be absolute; an empty collection uses domain.DefaultCollection.
// The embedder is optional and serves text queries and chunks stored
// without a vector.
func NewStore(dataDir, collection string, embedder driven.EmbeddingService) (*Store, error) {
	if dataDir == "" {
		return nil, domain.ErrDataDirUnset
	}
	if !filepath.IsAbs(dataDir) {
		return nil, fmt.Errorf("%w: data directory %q is not absolute", domain.ErrInvalidInput, dataDir)
	}
	if collection == "" {
		collection = domain.DefaultCollection
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, collection+".db")

	// Open database with WAL mode for concurrent readers
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		embedder: embedder,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("starting migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert inserts a chunk. An existing ID is left untouched and reported
// as not inserted.
func (s *Store) Upsert(ctx context.Context, chunk domain.StoredChunk) (bool, error) {
	if chunk.ID == "" {
		return false, domain.ErrInvalidInput
	}

	if len(chunk.Embedding) == 0 && s.embedder != nil {
		if exists, err := s.Exists(ctx, chunk.ID); err == nil && exists {
			return false, nil
		}
		vec, err := s.embedder.Embed(ctx, chunk.Content, domain.PurposeDocument)
		if err != nil {
			logger.Warn("sqlite: storing %s without embedding: %v", chunk.ID, err)
		} else {
			chunk.Embedding = vec
			chunk.Model = s.embedder.ModelName()
		}
	}
	if len(chunk.Embedding) == 0 {
		chunk.Model = ""
	}

	ingestedAt := chunk.Metadata.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = time.Now().UTC()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO chunks (`+chunkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, chunk.ID, chunk.Content, float32SliceToBytes(chunk.Embedding), chunk.Model,
		chunk.Metadata.Title, chunk.Metadata.URL, chunk.Metadata.Author,
		chunk.Metadata.Source, ingestedAt)
	if err != nil {
		return false, fmt.Errorf("inserting chunk: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting chunk: %w", err)
	}
	return n > 0, nil
}

// Exists reports whether a chunk with the given ID is stored.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM chunks WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking chunk: %w", err)
	}
	return true, nil
}

// Get retrieves a chunk by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.StoredChunk, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+chunkColumns+" FROM chunks WHERE id = ?", id)
	chunk, err := scanChunk(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// Query scores every comparable chunk against the query vector.
// Failures are logged and yield an empty result.
func (s *Store) Query(ctx context.Context, q domain.VectorQuery, k int) domain.RetrievalResult {
	if !q.HasEmbedding() {
		if s.embedder == nil || q.Text == "" {
			return domain.RetrievalResult{}
		}
		vec, err := s.embedder.Embed(ctx, q.Text, domain.PurposeQuery)
		if err != nil {
			logger.Warn("sqlite: query embedding failed: %v", err)
			return domain.RetrievalResult{}
		}
		q = domain.VectorQuery{Embedding: vec, Model: s.embedder.ModelName()}
	}

	query := "SELECT " + chunkColumns + " FROM chunks WHERE embedding IS NOT NULL"
	var args []any
	if q.Model != "" {
		query += " AND (model = ? OR model = '')"
		args = append(args, q.Model)
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Warn("sqlite: query failed: %v", err)
		return domain.RetrievalResult{}
	}
	defer rows.Close()

	var hits []domain.RetrievalHit
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			logger.Warn("sqlite: scanning chunk: %v", err)
			return domain.RetrievalResult{}
		}
		if !similarity.Comparable(*chunk, q) {
			logger.Debug("sqlite: skipping %s (dimension %d, query %d)", chunk.ID, len(chunk.Embedding), len(q.Embedding))
			continue
		}
		hits = append(hits, domain.RetrievalHit{
			Chunk: *chunk,
			Score: similarity.Cosine(q.Embedding, chunk.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		logger.Warn("sqlite: iterating chunks: %v", err)
		return domain.RetrievalResult{}
	}

	return domain.RetrievalResult{Hits: similarity.TopK(hits, k)}
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Reembed refreshes every chunk whose vector is missing or was produced
// by a different model than the current embedder.
func (s *Store) Reembed(ctx context.Context) (int, error) {
	if s.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	model := s.embedder.ModelName()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content FROM chunks
		WHERE embedding IS NULL OR model != ?
		ORDER BY ingested_at
	`, model)
	if err != nil {
		return 0, fmt.Errorf("listing stale chunks: %w", err)
	}
	type stale struct{ id, content string }
	var todo []stale
	for rows.Next() {
		var st stale
		if err := rows.Scan(&st.id, &st.content); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning stale chunk: %w", err)
		}
		todo = append(todo, st)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("listing stale chunks: %w", err)
	}

	updated := 0
	for _, st := range todo {
		vec, err := s.embedder.Embed(ctx, st.content, domain.PurposeDocument)
		if err != nil {
			return updated, fmt.Errorf("embedding %s: %w", st.id, err)
		}
		s.writeMu.Lock()
		_, err = s.db.ExecContext(ctx,
			"UPDATE chunks SET embedding = ?, model = ? WHERE id = ?",
			float32SliceToBytes(vec), model, st.id)
		s.writeMu.Unlock()
		if err != nil {
			return updated, fmt.Errorf("updating %s: %w", st.id, err)
		}
		updated++
	}
	if updated > 0 {
		logger.Info("sqlite: re-embedded %d chunks with %s", updated, model)
	}
	return updated, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanChunk(row rowScanner) (*domain.StoredChunk, error) {
	var c domain.StoredChunk
	var blob []byte
	var ingestedAt sql.NullTime
	if err := row.Scan(&c.ID, &c.Content, &blob, &c.Model,
		&c.Metadata.Title, &c.Metadata.URL, &c.Metadata.Author,
		&c.Metadata.Source, &ingestedAt); err != nil {
		return nil, err
	}
	c.Embedding = bytesToFloat32Slice(blob)
	if ingestedAt.Valid {
		c.Metadata.IngestedAt = ingestedAt.Time
	}
	return &c, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
