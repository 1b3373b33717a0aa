package catalog

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is a thread-safe in-memory catalog, used in tests and for
// one-shot CLI invocations that never touch disk.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string // IDs in insertion order
}

// NewMemStore creates an empty in-memory catalog.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]Entry)}
}

func (s *MemStore) Save(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.ID]; ok {
		return fmt.Errorf("entry %q already stored", entry.ID)
	}
	s.entries[entry.ID] = entry
	s.order = append(s.order, entry.ID)
	return nil
}

func (s *MemStore) Get(_ context.Context, id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("id %q: %w", id, ErrNotFound)
	}
	return entry, nil
}

func (s *MemStore) GetByFingerprint(_ context.Context, fingerprint string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		entry := s.entries[s.order[i]]
		if entry.Fingerprint == fingerprint {
			return entry, nil
		}
	}
	return Entry{}, fmt.Errorf("fingerprint %q: %w", fingerprint, ErrNotFound)
}

func (s *MemStore) List(_ context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []Entry
	for i := len(s.order) - 1; i >= 0; i-- {
		result = append(result, s.entries[s.order[i]])
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("id %q: %w", id, ErrNotFound)
	}
	delete(s.entries, id)
	for i, stored := range s.order {
		if stored == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemStore) Close() error {
	return nil
}
