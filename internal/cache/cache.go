// Package cache holds client-side mirrors of server-owned collections.
// A store is replaced wholesale on bulk reads and patched by id on
// single-entity mutation responses; it never computes derived fields.
package cache

import (
	"sync"

	"github.com/hoopmatch/internal/domain"
)

// Store is a flat, order-irrelevant mapping from primary key to entity
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[int64]V
	keyOf   func(V) int64
}

// NewStore creates an empty store using keyOf to extract primary keys
func NewStore[V any](keyOf func(V) int64) *Store[V] {
	return &Store[V]{
		entries: make(map[int64]V),
		keyOf:   keyOf,
	}
}

// NewGames creates a store for games keyed by game id
func NewGames() *Store[domain.Game] {
	return NewStore(func(g domain.Game) int64 { return g.ID })
}

// NewCourts creates a store for courts keyed by court id
func NewCourts() *Store[domain.Court] {
	return NewStore(func(c domain.Court) int64 { return c.ID })
}

// ReplaceAll discards every entry and installs the given collection.
// Last fetch wins; there is no incremental merge.
func (s *Store[V]) ReplaceAll(items []V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[int64]V, len(items))
	for _, item := range items {
		s.entries[s.keyOf(item)] = item
	}
}

// Put installs or replaces a single entry by its id
func (s *Store[V]) Put(item V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[s.keyOf(item)] = item
}

// Delete removes the entry with the given id, if present
func (s *Store[V]) Delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Get returns the entry with the given id
func (s *Store[V]) Get(id int64) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.entries[id]
	return item, ok
}

// All returns a snapshot of every entry, in no particular order
func (s *Store[V]) All() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]V, 0, len(s.entries))
	for _, item := range s.entries {
		items = append(items, item)
	}
	return items
}

// Len returns the number of cached entries
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes every entry
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[int64]V)
}
