package matching

import (
	"context"
	"time"
)

// Filter restricts a directory query. An empty Specialty matches every category.
type Filter struct {
	Status    Status
	KYCStatus KYCStatus
	Specialty Specialty
}

// Directory is the technician store the ranking reads from.
type Directory interface {
	QueryEligible(ctx context.Context, filter Filter, limit int) ([]TechnicianRecord, error)
}

// SearchStats persists category search counts.
type SearchStats interface {
	IncrementCategory(ctx context.Context, category Specialty) error
	TopCategories(ctx context.Context, limit int) ([]CategoryCount, error)
}

// Recorder observes completed searches.
type Recorder interface {
	ObserveSearch(category string, candidates int, elapsed time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSearch(string, int, time.Duration, error) {}

// Matches reports whether rec satisfies the filter.
func (f Filter) Matches(rec TechnicianRecord) bool {
	if f.Status != "" && rec.CurrentStatus != f.Status {
		return false
	}
	if f.KYCStatus != "" && rec.KYCStatus != f.KYCStatus {
		return false
	}
	if f.Specialty == "" {
		return true
	}
	for _, s := range rec.Specialties {
		if s == f.Specialty {
			return true
		}
	}
	return false
}

// EligibleFilter is the directory filter used for ranking.
func EligibleFilter(category Specialty) Filter {
	return Filter{Status: StatusAvailable, KYCStatus: KYCApproved, Specialty: category}
}
