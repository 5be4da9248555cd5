package footprint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotracker/ecotracker/internal/footprint"
)

func TestInMemoryRepository_FindByOwnerNewestFirst(t *testing.T) {
	repo := footprint.NewInMemoryRepository()
	ctx := context.Background()

	inputs := []*footprint.Record{
		record("u1", 10, day("2024-01-02"), [4]float64{}),
		record("u2", 20, day("2024-01-03"), [4]float64{}),
		record("u1", 30, day("2024-01-05"), [4]float64{}),
		record("u1", 40, day("2024-01-01"), [4]float64{}),
	}
	for _, rec := range inputs {
		_, err := repo.Create(ctx, rec)
		require.NoError(t, err)
	}

	got, err := repo.FindByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 30.0, got[0].TotalFootprint, epsilon)
	assert.InDelta(t, 10.0, got[1].TotalFootprint, epsilon)
	assert.InDelta(t, 40.0, got[2].TotalFootprint, epsilon)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestInMemoryRepository_SameInstantMostRecentInsertFirst(t *testing.T) {
	repo := footprint.NewInMemoryRepository()
	ctx := context.Background()

	first := record("u1", 1, day("2024-01-01"), [4]float64{})
	first.ID = "fp_first"
	second := record("u1", 2, day("2024-01-01"), [4]float64{})
	second.ID = "fp_second"

	_, err := repo.Create(ctx, first)
	require.NoError(t, err)
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	got, err := repo.FindByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "fp_second", got[0].ID)
	assert.Equal(t, "fp_first", got[1].ID)
}

func TestInMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := footprint.NewInMemoryRepository()
	ctx := context.Background()

	rec := record("u1", 10, day("2024-01-01"), [4]float64{1, 2, 3, 4})
	_, err := repo.Create(ctx, rec)
	require.NoError(t, err)

	rec.Categories[footprint.CategoryFood] = 100
	rec.Recommendations[0] = "changed"

	got, err := repo.FindByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 3.0, got[0].Categories[footprint.CategoryFood], epsilon)
	assert.Equal(t, footprint.MsgCongratulations, got[0].Recommendations[0])

	got[0].TotalFootprint = 999
	again, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, again[0].TotalFootprint, epsilon)
}

func TestInMemoryRepository_UnknownOwnerIsEmpty(t *testing.T) {
	repo := footprint.NewInMemoryRepository()

	got, err := repo.FindByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
