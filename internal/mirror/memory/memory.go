// Package memory provides an in-process mirror, used in tests and whenever no
// durable backend is configured.
package memory

import (
	"context"
	"sync"

	"asdgest/internal/core"
	"asdgest/internal/mirror"
)

// Store keeps the latest snapshot of each table in a map.
type Store struct {
	mu     sync.Mutex
	tables map[string]core.Table
}

// New returns an empty store.
func New() *Store {
	return &Store{tables: make(map[string]core.Table)}
}

// Preload seeds a table, as if a previous run had saved it.
func (s *Store) Preload(name string, t core.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = t
}

// Save implements mirror.Mirror.
func (s *Store) Save(_ context.Context, t core.Table, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = t
	return nil
}

// Load implements mirror.Mirror.
func (s *Store) Load(_ context.Context) (mirror.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mirror.State{
		Ricevute:  s.get(mirror.NameRicevute),
		PrimaNota: s.get(mirror.NamePrimaNota),
		Soci:      s.get(mirror.NameSoci),
	}, nil
}

// Saved returns the latest snapshot of a table and whether one exists.
func (s *Store) Saved(name string) (core.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	return t, ok
}

func (s *Store) get(name string) *core.Table {
	if t, ok := s.tables[name]; ok {
		return &t
	}
	return nil
}
