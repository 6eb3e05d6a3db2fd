package searchstats

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/technician-matching/internal/domain/matching"
)

// MemoryStore is an in-memory implementation of matching.SearchStats for tests/dev.
type MemoryStore struct {
	mu     sync.RWMutex
	counts map[matching.Specialty]int64
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[matching.Specialty]int64)}
}

// IncrementCategory bumps the search counter for a category.
func (s *MemoryStore) IncrementCategory(_ context.Context, category matching.Specialty) error {
	if category == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[category]++
	return nil
}

// TopCategories returns the most searched categories, highest count first.
func (s *MemoryStore) TopCategories(_ context.Context, limit int) ([]matching.CategoryCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.counts)
	}
	items := make([]matching.CategoryCount, 0, len(s.counts))
	for category, count := range s.counts {
		items = append(items, matching.CategoryCount{Category: category, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Category < items[j].Category
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ matching.SearchStats = (*MemoryStore)(nil)
