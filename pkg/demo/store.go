// Package demo holds the small in-memory example dataset a walkthrough mutates.
package demo

import (
	"sync"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// Store is an ordered, append-only list of demo items.
// The only removal is a full ResetTo. Safe for concurrent use.
type Store struct {
	items []domain.Item
	mu    sync.RWMutex
}

// NewStore creates a store seeded with a copy of initial.
func NewStore(initial []domain.Item) *Store {
	s := &Store{}
	s.ResetTo(initial)
	return s
}

// Append adds a copy of item at the end.
func (s *Store) Append(item domain.Item) {
	copied := item.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, copied)
}

// ResetTo discards everything and replaces the contents with a copy of items.
func (s *Store) ResetTo(items []domain.Item) {
	copied := make([]domain.Item, len(items))
	for i, it := range items {
		copied[i] = it.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = copied
}

// Snapshot returns a copy so callers can't mutate the store through it.
func (s *Store) Snapshot() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
