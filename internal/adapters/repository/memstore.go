// Package repository defines the screening report store interface and errors.
package repository

import (
	"context"
	"sync"

	"github.com/okian/oculo/internal/domain/model"
	"github.com/okian/oculo/pkg/metrics"
)

// defaultCapacity bounds how many reports the in-memory store retains.
const defaultCapacity = 256

// MemStore is a bounded in-memory Store. Reports are retained in insertion
// order; once the capacity is reached the oldest report is evicted.
// Reports are cloned on the way in and out, so a caller that keeps
// mutating its report after Put never races a reader encoding the
// stored one.
type MemStore struct {
	mu       sync.RWMutex
	capacity int
	reports  map[string]*model.Report
	order    []string
}

// NewMemStore creates an in-memory report store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		capacity: defaultCapacity,
		reports:  make(map[string]*model.Report),
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateStoredReports(0)
	return s
}

// Put inserts or replaces the report under its ID, evicting the oldest
// report when the store is at capacity.
func (s *MemStore) Put(ctx context.Context, r *model.Report) error {
	if r == nil {
		return ErrNilReport
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[r.ID]; !exists {
		if len(s.order) >= s.capacity {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.reports, oldest)
		}
		s.order = append(s.order, r.ID)
	}
	s.reports[r.ID] = r.Clone()

	metrics.UpdateStoredReports(len(s.order))
	return nil
}

// Get returns the report with the given ID.
func (s *MemStore) Get(ctx context.Context, id string) (*model.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Clone(), nil
}

// Recent returns at most limit reports from newest to oldest.
func (s *MemStore) Recent(ctx context.Context, limit int) ([]*model.Report, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit > len(s.order) {
		limit = len(s.order)
	}
	out := make([]*model.Report, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.reports[s.order[i]].Clone())
	}
	return out, nil
}

// Count returns the number of reports currently retained.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
