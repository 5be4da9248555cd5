package feedback_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotracker/ecotracker/internal/feedback"
	"github.com/ecotracker/ecotracker/internal/resilience"
)

var errUnavailable = errors.New("store unavailable")

// flakyStore fails the first failures calls of each operation.
type flakyStore struct {
	*feedback.InMemoryStore
	failures int
	creates  int
	lists    int
}

func (s *flakyStore) Create(ctx context.Context, e *feedback.Entry) (*feedback.Entry, error) {
	s.creates++
	if s.creates <= s.failures {
		return nil, errUnavailable
	}
	return s.InMemoryStore.Create(ctx, e)
}

func (s *flakyStore) ListByOwner(ctx context.Context, ownerID string) ([]*feedback.Entry, error) {
	s.lists++
	if s.lists <= s.failures {
		return nil, errUnavailable
	}
	return s.InMemoryStore.ListByOwner(ctx, ownerID)
}

func testGuard(name string) *resilience.Guard {
	cfg := resilience.DefaultGuardConfig(name)
	cfg.InitialInterval = time.Millisecond
	cfg.MaxInterval = 2 * time.Millisecond
	return resilience.NewGuard(cfg)
}

func TestResilientStore_ListIsRetried(t *testing.T) {
	inner := &flakyStore{InMemoryStore: feedback.NewInMemoryStore(), failures: 1}
	store := feedback.NewResilientStore(inner, testGuard("feedback-list"))

	entries, err := store.ListByOwner(context.Background(), "usr_1")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 2, inner.lists)
}

func TestResilientStore_CreateRunsOnce(t *testing.T) {
	inner := &flakyStore{InMemoryStore: feedback.NewInMemoryStore(), failures: 1}
	store := feedback.NewResilientStore(inner, testGuard("feedback-create"))

	_, err := store.Create(context.Background(), &feedback.Entry{ID: "fb_1", OwnerID: "usr_1", Rating: 3})
	require.ErrorIs(t, err, errUnavailable)
	assert.Equal(t, 1, inner.creates)
}
