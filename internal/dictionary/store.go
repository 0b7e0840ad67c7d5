// Package dictionary keeps the romanizer override table current: a
// concurrency-safe Store, a file Watcher that reloads it, and an Exporter that
// regenerates the flat file from the database.
package dictionary

import (
	"errors"
	"sync"
	"time"

	"baakh/internal/sindhi"
)

// ErrNoPath is returned by Reload when the store has no backing file.
var ErrNoPath = errors.New("dictionary path not configured")

// Stats describes the currently served dictionary.
type Stats struct {
	Path      string    `json:"path,omitempty"`
	Entries   int       `json:"entries"`
	LoadedAt  time.Time `json:"loaded_at"`
	Reloads   int       `json:"reloads"`
	LastError string    `json:"last_error,omitempty"`
}

// Store holds the active dictionary. Readers never block each other and a
// failed reload leaves the previous table in place.
type Store struct {
	path string

	mu       sync.RWMutex
	dict     sindhi.Dictionary
	loadedAt time.Time
	reloads  int
	lastErr  error
}

var _ sindhi.Lexicon = (*Store)(nil)

// NewStore returns an empty store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path, dict: sindhi.Dictionary{}}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the backing file for the first time.
func (s *Store) Load() error {
	_, err := s.Reload()
	return err
}

// Reload re-reads the backing file and swaps it in.
func (s *Store) Reload() (Stats, error) {
	if s.path == "" {
		return s.Stats(), ErrNoPath
	}

	dict, err := sindhi.LoadDictionary(s.path)

	s.mu.Lock()
	if err != nil {
		s.lastErr = err
	} else {
		s.dict = dict
		s.loadedAt = time.Now()
		s.reloads++
		s.lastErr = nil
	}
	s.mu.Unlock()

	return s.Stats(), err
}

// Replace swaps in dict directly.
func (s *Store) Replace(dict sindhi.Dictionary) {
	if dict == nil {
		dict = sindhi.Dictionary{}
	}
	s.mu.Lock()
	s.dict = dict
	s.loadedAt = time.Now()
	s.reloads++
	s.lastErr = nil
	s.mu.Unlock()
}

// Lookup implements sindhi.Lexicon.
func (s *Store) Lookup(word string) (string, bool) {
	s.mu.RLock()
	dict := s.dict
	s.mu.RUnlock()
	return dict.Lookup(word)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dict)
}

// Stats reports the current state.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Path:     s.path,
		Entries:  len(s.dict),
		LoadedAt: s.loadedAt,
		Reloads:  s.reloads,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}
