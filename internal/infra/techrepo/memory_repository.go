package techrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yanqian/technician-matching/internal/domain/matching"
)

// MemoryRepository is an in-memory matching.Directory used for tests/dev.
// Records keep their insertion order.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []matching.TechnicianRecord
	byID    map[string]int
}

// NewMemoryRepository constructs a directory backed by memory.
func NewMemoryRepository(records ...matching.TechnicianRecord) *MemoryRepository {
	r := &MemoryRepository{byID: make(map[string]int)}
	for _, rec := range records {
		r.Upsert(rec)
	}
	return r
}

// Upsert inserts or replaces a record by ID. Records without an ID get one.
func (r *MemoryRepository) Upsert(rec matching.TechnicianRecord) matching.TechnicianRecord {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec = cloneRecord(rec)

	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.byID[rec.ID]; ok {
		r.records[idx] = rec
		return cloneRecord(rec)
	}
	r.byID[rec.ID] = len(r.records)
	r.records = append(r.records, rec)
	return cloneRecord(rec)
}

// Len reports how many records are stored.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// QueryEligible implements matching.Directory.
func (r *MemoryRepository) QueryEligible(ctx context.Context, filter matching.Filter, limit int) ([]matching.TechnicianRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	capacity := len(r.records)
	if limit > 0 && limit < capacity {
		capacity = limit
	}
	out := make([]matching.TechnicianRecord, 0, capacity)
	for _, rec := range r.records {
		if limit > 0 && len(out) >= limit {
			break
		}
		if !filter.Matches(rec) {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

func cloneRecord(rec matching.TechnicianRecord) matching.TechnicianRecord {
	rec.Specialties = append([]matching.Specialty(nil), rec.Specialties...)
	if rec.LastLocation != nil {
		loc := *rec.LastLocation
		rec.LastLocation = &loc
	}
	if rec.ResponseTimeMinutes != nil {
		v := *rec.ResponseTimeMinutes
		rec.ResponseTimeMinutes = &v
	}
	if rec.RecentReview != nil {
		review := *rec.RecentReview
		rec.RecentReview = &review
	}
	return rec
}

var _ matching.Directory = (*MemoryRepository)(nil)
