// Package file persists bindings in a JSON document on local disk, in the
// layout {"users": {"<domain>": "<did>"}}.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"atproto-handle/internal/claims/models"
	"atproto-handle/internal/domainauth"
	"atproto-handle/pkg/platform/sentinel"
)

type document struct {
	Users map[string]string `json:"users"`
}

// Store caches the document in memory. Read serves the cache, Write replaces
// the file atomically, and Reload re-reads it from disk.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache []models.Binding
}

// New opens the document at path. A missing file is an empty set; a
// malformed one is an error wrapping sentinel.ErrCorrupt.
func New(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Read(_ context.Context) ([]models.Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Binding, len(s.cache))
	copy(out, s.cache)
	return out, nil
}

func (s *Store) Write(_ context.Context, bindings []models.Binding) error {
	payload, err := json.MarshalIndent(document{Users: models.ToMap(bindings)}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bindings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeAtomic(s.path, payload); err != nil {
		return err
	}
	s.cache = models.FromMap(models.ToMap(bindings))
	return nil
}

func (s *Store) Reload(_ context.Context) error {
	bindings, err := load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cache = bindings
	s.mu.Unlock()
	return nil
}

func load(path string) ([]models.Binding, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bindings file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode bindings file %s: %w: %w", path, sentinel.ErrCorrupt, err)
	}
	return models.FromMap(normalizeKeys(doc.Users)), nil
}

// normalizeKeys folds hand-edited domains (mixed case, trailing dot) into the
// form the registry looks up. On a collision the lexically first raw key wins.
func normalizeKeys(users map[string]string) map[string]string {
	raw := make([]string, 0, len(users))
	for domain := range users {
		raw = append(raw, domain)
	}
	sort.Strings(raw)

	out := make(map[string]string, len(users))
	for _, domain := range raw {
		key := domainauth.Normalize(domain)
		if key == "" {
			continue
		}
		if _, seen := out[key]; seen {
			continue
		}
		out[key] = users[domain]
	}
	return out
}

func writeAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bindings dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".bindings-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace bindings file: %w", err)
	}
	return nil
}
