package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// builtinPrompts seed the prompt directory and back any template that
// cannot be read.
var builtinPrompts = map[string]string{
	driven.PromptAnalysis: domain.DefaultAnalysisPrompt,
}

const promptReadme = "# lexguard prompts\n\n" +
	"`analysis.txt` is the template used to ask a model for a copyright risk\n" +
	"assessment. It must contain exactly two `%s` placeholders: the first\n" +
	"receives the retrieved case law, the second the idea being assessed.\n" +
	"Write a literal percent sign as `%%`. A template that breaks this rule\n" +
	"is ignored and the built-in one is used.\n\n" +
	"Edits are picked up the next time lexguard starts.\n"

// PromptStore serves analysis templates from user-editable files.
// The directory is seeded on first Load, never in the constructor.
type PromptStore struct {
	dir string

	mu      sync.Mutex
	seeded  bool
	seedErr error
	cache   map[string]string
}

// NewPromptStore creates a prompt store rooted at dir, or <home>/prompts
// when dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := DefaultHome()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Load returns the named template. A file that is missing or unreadable
// yields the built-in template; an unknown name without a file is an error.
func (s *PromptStore) Load(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seeded {
		s.seedErr = s.seed()
		s.seeded = true
	}
	if tmpl, ok := s.cache[name]; ok {
		return tmpl, nil
	}

	tmpl, err := s.read(name)
	if err != nil {
		if builtin, ok := builtinPrompts[name]; ok {
			return builtin, nil
		}
		if s.seedErr != nil {
			return "", fmt.Errorf("prompt %q: %w", name, s.seedErr)
		}
		return "", fmt.Errorf("prompt %q: %w", name, err)
	}

	s.cache[name] = tmpl
	return tmpl, nil
}

// Reload drops cached templates so the next Load reads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(s.path(name + ".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// seed writes the built-in templates and a README without touching files
// the user already has.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}

	files := map[string]string{"README.md": promptReadme}
	for name, content := range builtinPrompts {
		files[name+".txt"] = content
	}

	var errs []error
	for file, content := range files {
		if err := writeIfAbsent(s.path(file), content); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *PromptStore) path(file string) string {
	return filepath.Join(s.dir, file)
}

func writeIfAbsent(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed %s: %w", filepath.Base(path), err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("seed %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
