// Package favorites keeps the persistent set of favorited record ids.
//
// The set is loaded once at startup, asynchronously, and written back in
// full after every toggle. Storage problems never surface to the user: they
// are logged as *PersistenceError and the store carries on in memory.
package favorites

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
)

// StorageKey is the key the set is persisted under.
const StorageKey = "resource-explorer-favorites"

// Backend is the key/value storage the set lives in.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Set is a set of record ids.
type Set map[int]bool

// PersistenceError reports a failed load or save.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "favorites " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is safe for concurrent use.
type Store struct {
	backend Backend
	logger  *log.Logger

	mu     sync.RWMutex
	set    Set
	loaded bool
}

// New returns an unloaded store. A nil logger discards output.
func New(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{backend: backend, logger: logger, set: Set{}}
}

// Load reads the persisted set. Missing data yields an empty set. Unreadable
// or corrupt data is logged and also yields an empty set; the returned
// *PersistenceError is informational. The store is loaded afterwards either
// way.
func (s *Store) Load(ctx context.Context) error {
	set, err := s.read(ctx)
	if err != nil {
		s.logger.Warn("favorites unavailable, starting empty", "err", err)
		set = Set{}
	}

	s.mu.Lock()
	s.set = set
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("favorites loaded", "count", len(set))
	return err
}

// LoadAsync runs Load in the background. The returned channel is closed once
// the store is loaded.
func (s *Store) LoadAsync(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Load(ctx)
	}()
	return done
}

func (s *Store) read(ctx context.Context) (Set, error) {
	if s.backend == nil {
		return Set{}, nil
	}
	raw, ok, err := s.backend.Get(ctx, StorageKey)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	if !ok || raw == "" {
		return Set{}, nil
	}
	return decode(raw)
}

// IsLoaded reports whether Load has completed.
func (s *Store) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Toggle flips membership of id and persists the whole set. It returns the
// new membership. Toggles before the store is loaded are ignored so that an
// early write cannot clobber the persisted set.
func (s *Store) Toggle(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.logger.Warn("favorite toggle before load ignored", "id", id)
		return false
	}
	if s.set[id] {
		delete(s.set, id)
	} else {
		s.set[id] = true
	}
	member := s.set[id]

	if err := s.save(context.Background()); err != nil {
		s.logger.Error("favorites not saved", "err", err)
	}
	return member
}

func (s *Store) save(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	raw, err := encode(s.set)
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	if err := s.backend.Set(ctx, StorageKey, raw); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// IsFavorite reports whether id is in the set.
func (s *Store) IsFavorite(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set[id]
}

// IDs returns the members in ascending order.
func (s *Store) IDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.set))
	for id := range s.set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of members.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.set)
}

// Snapshot returns a copy of the set.
func (s *Store) Snapshot() Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Set, len(s.set))
	for id := range s.set {
		out[id] = true
	}
	return out
}

// decode parses the persisted {"<id>": true} object. Keys that are not
// positive integers and false values are skipped.
func decode(raw string) (Set, error) {
	var stored map[string]bool
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, &PersistenceError{Op: "decode", Err: err}
	}
	set := make(Set, len(stored))
	for key, on := range stored {
		id, err := strconv.Atoi(key)
		if err != nil || id <= 0 || !on {
			continue
		}
		set[id] = true
	}
	return set, nil
}

func encode(set Set) (string, error) {
	stored := make(map[string]bool, len(set))
	for id := range set {
		stored[strconv.Itoa(id)] = true
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
