package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps records in memory. When more than limit records are
// held, the oldest are dropped.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string // insertion order, oldest first
	limit   int
}

// NewMemoryStore creates a store holding at most limit records (0 = unbounded).
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record), limit: limit}
}

func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("save: record id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; ok {
		return fmt.Errorf("save %s: duplicate id", rec.ID)
	}
	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	for s.limit > 0 && len(s.order) > s.limit {
		delete(s.records, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	limit = listLimit(limit)
	out := make([]*Record, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[s.order[i]])
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Close() error { return nil }
