package techrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/technician-matching/internal/domain/matching"
)

func TestMemoryRepositoryFiltersAndKeepsOrder(t *testing.T) {
	repo := NewMemoryRepository(
		record("a", matching.StatusAvailable, matching.KYCApproved, matching.SpecialtyPlumbing),
		record("b", matching.StatusBusy, matching.KYCApproved, matching.SpecialtyPlumbing),
		record("c", matching.StatusAvailable, matching.KYCRejected, matching.SpecialtyPlumbing),
		record("d", matching.StatusAvailable, matching.KYCApproved, matching.SpecialtyElectrical, matching.SpecialtyPlumbing),
		record("e", matching.StatusAvailable, matching.KYCApproved, matching.SpecialtyGardening),
	)

	got, err := repo.QueryEligible(context.Background(), matching.EligibleFilter(matching.SpecialtyPlumbing), 10)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "d"}, recordIDs(got))

	got, err = repo.QueryEligible(context.Background(), matching.EligibleFilter(""), 2)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "d"}, recordIDs(got))

	got, err = repo.QueryEligible(context.Background(), matching.EligibleFilter(""), 0)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "d", "e"}, recordIDs(got))
}

func TestMemoryRepositoryUpsertAssignsIDAndReplaces(t *testing.T) {
	repo := NewMemoryRepository()
	created := repo.Upsert(record("", matching.StatusAvailable, matching.KYCApproved, matching.SpecialtyHVAC))
	require.NotEmpty(t, created.ID)
	require.Equal(t, 1, repo.Len())

	created.CurrentStatus = matching.StatusOffline
	repo.Upsert(created)
	require.Equal(t, 1, repo.Len())

	got, err := repo.QueryEligible(context.Background(), matching.EligibleFilter(""), 10)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	rec := record("a", matching.StatusAvailable, matching.KYCApproved, matching.SpecialtyCleaning)
	rec.LastLocation = &matching.Location{Lat: 1, Lng: 2}
	repo := NewMemoryRepository(rec)

	got, err := repo.QueryEligible(context.Background(), matching.EligibleFilter(""), 10)
	require.NoError(t, err)
	got[0].LastLocation.Lat = 50
	got[0].Specialties[0] = matching.SpecialtyHandyman

	again, err := repo.QueryEligible(context.Background(), matching.EligibleFilter(""), 10)
	require.NoError(t, err)
	require.Equal(t, 1.0, again[0].LastLocation.Lat)
	require.Equal(t, matching.SpecialtyCleaning, again[0].Specialties[0])
}

func TestMemoryRepositoryHonoursCancelledContext(t *testing.T) {
	repo := NewMemoryRepository(record("a", matching.StatusAvailable, matching.KYCApproved, matching.SpecialtyCleaning))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.QueryEligible(ctx, matching.EligibleFilter(""), 10)
	require.ErrorIs(t, err, context.Canceled)
}

func record(id string, status matching.Status, kyc matching.KYCStatus, specialties ...matching.Specialty) matching.TechnicianRecord {
	return matching.TechnicianRecord{
		ID:            id,
		Account:       matching.Account{ID: "user-" + id, Name: "Tech " + id},
		Specialties:   specialties,
		CurrentStatus: status,
		KYCStatus:     kyc,
	}
}

func recordIDs(records []matching.TechnicianRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
