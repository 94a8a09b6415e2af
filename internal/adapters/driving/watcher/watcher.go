// Package watcher ingests case files dropped into a directory.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// DefaultDebounce coalesces the burst of writes editors and copies produce.
const DefaultDebounce = 500 * time.Millisecond

// DefaultExtensions are the file types the normalisers understand.
var DefaultExtensions = []string{".txt", ".md", ".markdown", ".html", ".htm", ".pdf"}

// FileIngester stores a single local file.
type FileIngester interface {
	IngestFile(ctx context.Context, path string) (domain.IngestStatus, error)
}

// Config holds configuration for the watcher.
type Config struct {
	// Debounce delays ingestion until a file has been quiet this long.
	// Zero ingests on every event.
	Debounce time.Duration

	// Extensions limits which files are ingested (default: DefaultExtensions).
	Extensions []string

	// InitialScan ingests existing files before watching.
	InitialScan bool
}

// Watcher ingests created and modified files under a root directory.
type Watcher struct {
	ingest   FileIngester
	root     string
	debounce time.Duration
	scan     bool
	exts     map[string]bool

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher for root.
func New(ingest FileIngester, root string, cfg Config) *Watcher {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}

	return &Watcher{
		ingest:   ingest,
		root:     root,
		debounce: cfg.Debounce,
		scan:     cfg.InitialScan,
		exts:     set,
		timers:   make(map[string]*time.Timer),
	}
}

// Run watches root and its subdirectories until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(ctx, fw, w.root, w.scan); err != nil {
		return err
	}
	logger.Info("watch: watching %s", w.root)

	defer w.stopTimers()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) && !isHidden(event.Name) {
				if err := w.addTree(ctx, fw, event.Name, true); err != nil {
					logger.Warn("watch: %v", err)
				}
				continue
			}
			w.handleEvent(ctx, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// addTree watches dir and its non-hidden subdirectories, optionally
// ingesting the files already present.
func (w *Watcher) addTree(ctx context.Context, fw *fsnotify.Watcher, dir string, ingestExisting bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
			return nil
		}
		if ingestExisting && w.supported(path) {
			w.ingestNow(ctx, path)
		}
		return nil
	})
}

// handleEvent reports whether the event was accepted for ingestion.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	if isHidden(event.Name) || !w.supported(event.Name) || isDir(event.Name) {
		return false
	}

	if w.debounce <= 0 {
		w.ingestNow(ctx, event.Name)
		return true
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[event.Name]; ok {
		t.Reset(w.debounce)
		return true
	}
	path := event.Name
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.ingestNow(ctx, path)
	})
	return true
}

func (w *Watcher) ingestNow(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	status, err := w.ingest.IngestFile(ctx, path)
	switch {
	case errors.Is(err, domain.ErrEmptyContent):
		logger.Debug("watch: %s is empty", path)
	case err != nil:
		logger.Warn("watch: ingest %s: %v", path, err)
	default:
		logger.Info("watch: %s %s", path, status)
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) supported(path string) bool {
	return w.exts[strings.ToLower(filepath.Ext(path))]
}

// isHidden reports whether any element of path starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
