// Package prefs persists per-view user preferences across CLI invocations.
//
// The browser remembers the last-selected sort key independently for the
// restaurant list and the menu list, the same way a web client would keep
// them in local storage. Preferences live in a small YAML file inside the
// config directory.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Well-known view names.
const (
	ViewRestaurants = "restaurants"
	ViewMenu        = "menu"
)

// DefaultSortKey is returned for a view that has never stored a preference.
const DefaultSortKey = "none"

const prefsFile = "preferences.yaml"

// Store reads and writes view-scoped preferences.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a preference store rooted at dir. The directory is
// created lazily on first write.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, prefsFile)}
}

// SortKey returns the persisted sort key for a view, or DefaultSortKey when
// nothing has ever been saved for it.
func (s *Store) SortKey(view string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.load()
	if err != nil {
		return DefaultSortKey
	}
	if key, ok := prefs.SortKeys[view]; ok && key != "" {
		return key
	}
	return DefaultSortKey
}

// SetSortKey persists the sort key for a view.
func (s *Store) SetSortKey(view, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.load()
	if err != nil {
		return err
	}
	if prefs.SortKeys == nil {
		prefs.SortKeys = make(map[string]string)
	}
	prefs.SortKeys[view] = key

	return s.save(prefs)
}

type filePrefs struct {
	SortKeys map[string]string `yaml:"sort_keys,omitempty"`
}

func (s *Store) load() (*filePrefs, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &filePrefs{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}

	var prefs filePrefs
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("parsing preferences: %w", err)
	}
	return &prefs, nil
}

func (s *Store) save(prefs *filePrefs) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}

	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}
