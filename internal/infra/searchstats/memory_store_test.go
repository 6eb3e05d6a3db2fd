package searchstats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/technician-matching/internal/domain/matching"
)

func TestMemoryStoreTopCategories(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, c := range []matching.Specialty{
		matching.SpecialtyPlumbing,
		matching.SpecialtyElectrical,
		matching.SpecialtyPlumbing,
		matching.SpecialtyCleaning,
		matching.SpecialtyElectrical,
		matching.SpecialtyPlumbing,
		"",
	} {
		require.NoError(t, store.IncrementCategory(ctx, c))
	}

	top, err := store.TopCategories(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []matching.CategoryCount{
		{Category: matching.SpecialtyPlumbing, Count: 3},
		{Category: matching.SpecialtyElectrical, Count: 2},
	}, top)

	all, err := store.TopCategories(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
