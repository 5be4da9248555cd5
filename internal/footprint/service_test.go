package footprint_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotracker/ecotracker/internal/footprint"
)

var errStoreDown = errors.New("store unreachable")

// flakyRepository wraps a repository and fails selected operations.
type flakyRepository struct {
	*footprint.InMemoryRepository
	failCreate bool
	failReads  bool
}

func (r *flakyRepository) Create(ctx context.Context, rec *footprint.Record) (*footprint.Record, error) {
	if r.failCreate {
		return nil, errStoreDown
	}
	return r.InMemoryRepository.Create(ctx, rec)
}

func (r *flakyRepository) FindAll(ctx context.Context) ([]*footprint.Record, error) {
	if r.failReads {
		return nil, errStoreDown
	}
	return r.InMemoryRepository.FindAll(ctx)
}

func (r *flakyRepository) FindByOwner(ctx context.Context, ownerID string) ([]*footprint.Record, error) {
	if r.failReads {
		return nil, errStoreDown
	}
	return r.InMemoryRepository.FindByOwner(ctx, ownerID)
}

// stepClock returns a time one hour later on each call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := current
		current = current.Add(time.Hour)
		return now
	}
}

func newTestService(repo footprint.Repository) *footprint.Service {
	var n int
	return footprint.NewService(footprint.ServiceConfig{
		Repository: repo,
		Logger:     zerolog.New(io.Discard),
		Now:        stepClock(day("2024-01-01")),
		NewID: func() string {
			n++
			return fmt.Sprintf("fp_%03d", n)
		},
	})
}

func TestService_ComputeAndRecommend(t *testing.T) {
	service := newTestService(footprint.NewInMemoryRepository())

	rec, err := service.ComputeAndRecommend(referenceInputs())
	require.NoError(t, err)

	assert.Empty(t, rec.ID)
	assert.Empty(t, rec.OwnerID)
	assert.InDelta(t, 96.0, rec.TotalFootprint, epsilon)
	assert.Equal(t, footprint.BandGood, rec.Band())
	// Reference inputs trip no field rule and sit in the Good band.
	assert.Equal(t, []string{footprint.MsgCongratulations}, rec.Recommendations)
}

func TestService_ComputeAndRecommend_OutOfRange(t *testing.T) {
	service := newTestService(footprint.NewInMemoryRepository())

	_, err := service.ComputeAndRecommend(footprint.RawInputs{
		footprint.CategoryTransport: {"carKm": 10000},
	})

	var fieldErr *footprint.InvalidInputError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "transport.carKm", fieldErr.Path())
}

func TestService_Submit(t *testing.T) {
	repo := footprint.NewInMemoryRepository()
	service := newTestService(repo)
	ctx := context.Background()

	rec, err := service.Submit(ctx, "usr_1", referenceInputs())
	require.NoError(t, err)

	assert.Equal(t, "fp_001", rec.ID)
	assert.Equal(t, "usr_1", rec.OwnerID)
	assert.True(t, rec.CreatedAt.Equal(day("2024-01-01")))
	assert.InDelta(t, 96.0, rec.TotalFootprint, epsilon)

	stored, err := repo.FindByOwner(ctx, "usr_1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, rec, stored[0])
}

func TestService_Submit_RequiresOwner(t *testing.T) {
	service := newTestService(footprint.NewInMemoryRepository())

	_, err := service.Submit(context.Background(), "", referenceInputs())
	assert.ErrorIs(t, err, footprint.ErrMissingOwner)
}

func TestService_Submit_InvalidInputStoresNothing(t *testing.T) {
	repo := footprint.NewInMemoryRepository()
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.Submit(ctx, "usr_1", footprint.RawInputs{
		footprint.CategoryFood: {"meat": 50},
	})
	require.Error(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestService_Submit_PersistFailureIsAllOrNothing(t *testing.T) {
	repo := &flakyRepository{InMemoryRepository: footprint.NewInMemoryRepository(), failCreate: true}
	service := newTestService(repo)
	ctx := context.Background()

	rec, err := service.Submit(ctx, "usr_1", referenceInputs())
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, errStoreDown)

	stats, err := service.GetCommunityStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalCalculations)
}

func TestService_GetPersonalStats(t *testing.T) {
	service := newTestService(footprint.NewInMemoryRepository())
	ctx := context.Background()

	first, err := service.Submit(ctx, "usr_1", referenceInputs())
	require.NoError(t, err)
	second, err := service.Submit(ctx, "usr_1", footprint.RawInputs{
		footprint.CategoryTransport: {"carKm": 200},
	})
	require.NoError(t, err)
	_, err = service.Submit(ctx, "usr_2", footprint.RawInputs{
		footprint.CategoryTransport: {"flights": 1},
	})
	require.NoError(t, err)

	stats, err := service.GetPersonalStats(ctx, "usr_1")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Count)
	require.NotNil(t, stats.Latest)
	assert.Equal(t, second.ID, stats.Latest.ID)
	assert.InDelta(t, (first.TotalFootprint+second.TotalFootprint)/2, stats.Average, epsilon)
	require.Len(t, stats.Trend, 2)
	assert.True(t, stats.Trend[0].RecordedAt.Before(stats.Trend[1].RecordedAt))
}

func TestService_GetPersonalStats_NoRecords(t *testing.T) {
	service := newTestService(footprint.NewInMemoryRepository())

	stats, err := service.GetPersonalStats(context.Background(), "usr_nobody")
	require.NoError(t, err)

	assert.Nil(t, stats.Latest)
	assert.Zero(t, stats.Average)
	assert.Zero(t, stats.Count)
}

func TestService_GetCommunityStats(t *testing.T) {
	service := newTestService(footprint.NewInMemoryRepository())
	ctx := context.Background()

	empty, err := service.GetCommunityStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &footprint.CommunityStats{}, empty)

	_, err = service.Submit(ctx, "usr_1", referenceInputs()) // 96
	require.NoError(t, err)
	_, err = service.Submit(ctx, "usr_2", footprint.RawInputs{
		footprint.CategoryEnergy: {"gas": 2}, // 30
	})
	require.NoError(t, err)

	stats, err := service.GetCommunityStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCalculations)
	assert.InDelta(t, 63.0, stats.AverageFootprint, epsilon)
}

func TestService_GetAnalytics(t *testing.T) {
	service := newTestService(footprint.NewInMemoryRepository())
	ctx := context.Background()

	_, err := service.Submit(ctx, "usr_1", referenceInputs()) // 96
	require.NoError(t, err)
	_, err = service.Submit(ctx, "usr_2", footprint.RawInputs{
		footprint.CategoryEnergy: {"gas": 2}, // 30
	})
	require.NoError(t, err)

	analytics, err := service.GetAnalytics(ctx, "usr_1")
	require.NoError(t, err)

	assert.Equal(t, 1, analytics.Personal.Count)
	assert.Equal(t, 2, analytics.Community.TotalCalculations)
	assert.InDelta(t, 96.0, analytics.Comparison.UserAverage, epsilon)
	assert.InDelta(t, 63.0, analytics.Comparison.CommunityAverage, epsilon)
	assert.InDelta(t, 33.0, analytics.Comparison.Difference, epsilon)
}

func TestService_ReadFailuresPropagate(t *testing.T) {
	repo := &flakyRepository{InMemoryRepository: footprint.NewInMemoryRepository(), failReads: true}
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.GetPersonalStats(ctx, "usr_1")
	assert.ErrorIs(t, err, errStoreDown)

	_, err = service.GetCommunityStats(ctx)
	assert.ErrorIs(t, err, errStoreDown)

	_, err = service.GetAnalytics(ctx, "usr_1")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestService_Get(t *testing.T) {
	service := newTestService(footprint.NewInMemoryRepository())
	ctx := context.Background()

	rec, err := service.Submit(ctx, "usr_1", referenceInputs())
	require.NoError(t, err)

	got, err := service.Get(ctx, "usr_1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = service.Get(ctx, "usr_2", rec.ID)
	assert.ErrorIs(t, err, footprint.ErrRecordNotFound)

	_, err = service.Get(ctx, "usr_1", "fp_missing")
	assert.ErrorIs(t, err, footprint.ErrRecordNotFound)
}
