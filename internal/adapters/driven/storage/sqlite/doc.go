// Package sqlite provides the on-disk vector store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Each chunk row carries its text,
// metadata, a little-endian float32 embedding blob and the name of the model
// that produced it. Similarity search is a brute-force cosine scan, which is
// adequate for a corpus of a few thousand cases.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// The database lives at <data_dir>/<collection>.db. The data directory must be
// an absolute path resolved once at startup.
//
// # Thread Safety
//
// Reads run concurrently in WAL mode. Writes are serialised by a mutex.
package sqlite
