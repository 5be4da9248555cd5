package footprint

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ServiceConfig holds configuration for the footprint service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger

	// Calculator defaults to one over the built-in factor table.
	Calculator *Calculator

	// Metrics is optional.
	Metrics *Metrics

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// Service computes, stores, and aggregates footprint records. Aggregates are
// recomputed from the repository on every call.
type Service struct {
	repo       Repository
	calculator *Calculator
	logger     zerolog.Logger
	metrics    *Metrics
	now        func() time.Time
	newID      func() string
}

// NewService creates a new footprint service.
func NewService(cfg ServiceConfig) *Service {
	calculator := cfg.Calculator
	if calculator == nil {
		calculator = NewCalculator(DefaultFactorTable())
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	newID := cfg.NewID
	if newID == nil {
		newID = func() string { return "fp_" + uuid.New().String()[:22] }
	}

	return &Service{
		repo:       cfg.Repository,
		calculator: calculator,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		now:        now,
		newID:      newID,
	}
}

// FactorTable returns the table the service computes with.
func (s *Service) FactorTable() *FactorTable {
	return s.calculator.Table()
}

// ComputeAndRecommend validates raw, computes the breakdown, and attaches
// recommendations. The returned record has no ID or owner and is not stored.
func (s *Service) ComputeAndRecommend(raw RawInputs) (*Record, error) {
	if err := s.calculator.Table().ValidateInputs(raw); err != nil {
		return nil, err
	}

	breakdown, err := s.calculator.Compute(raw)
	if err != nil {
		return nil, err
	}

	return &Record{
		TotalFootprint:  breakdown.Total,
		Categories:      breakdown.Categories,
		Recommendations: Recommend(raw, breakdown.Total),
	}, nil
}

// Submit computes a record for the owner and persists it. Nothing is stored
// when validation fails, and a failed persist leaves no trace.
func (s *Service) Submit(ctx context.Context, ownerID string, raw RawInputs) (*Record, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	rec, err := s.ComputeAndRecommend(raw)
	if err != nil {
		s.metrics.recordFailure(ctx, "invalid_input")
		return nil, err
	}

	rec.ID = s.newID()
	rec.OwnerID = ownerID
	rec.CreatedAt = s.now().UTC()

	saved, err := s.repo.Create(ctx, rec)
	if err != nil {
		s.metrics.recordFailure(ctx, "store")
		s.logger.Error().
			Err(err).
			Str("user_id", ownerID).
			Msg("failed to persist footprint record")
		return nil, fmt.Errorf("create footprint record: %w", err)
	}

	s.metrics.recordSubmission(ctx, saved)
	s.logger.Info().
		Str("record_id", saved.ID).
		Str("user_id", ownerID).
		Float64("total", saved.TotalFootprint).
		Str("band", string(saved.Band())).
		Msg("footprint recorded")

	return saved, nil
}

// History returns the owner's records, newest first.
func (s *Service) History(ctx context.Context, ownerID string) ([]*Record, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	records, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("find footprint records: %w", err)
	}
	return records, nil
}

// Get returns one of the owner's records. Records of other owners are
// reported as not found.
func (s *Service) Get(ctx context.Context, ownerID, recordID string) (*Record, error) {
	records, err := s.History(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == recordID {
			return rec, nil
		}
	}
	return nil, ErrRecordNotFound
}

// GetPersonalStats aggregates the owner's records.
func (s *Service) GetPersonalStats(ctx context.Context, ownerID string) (*PersonalStats, error) {
	records, err := s.History(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return AggregatePersonal(records), nil
}

// GetCommunityStats aggregates every record in the system.
func (s *Service) GetCommunityStats(ctx context.Context) (*CommunityStats, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all footprint records: %w", err)
	}
	return AggregateCommunity(records), nil
}

// GetAnalytics loads personal and community stats concurrently and compares
// them. Either read failing fails the whole call.
func (s *Service) GetAnalytics(ctx context.Context, ownerID string) (*Analytics, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	var (
		personal  *PersonalStats
		community *CommunityStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		personal, err = s.GetPersonalStats(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		community, err = s.GetCommunityStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Analytics{
		Personal:   personal,
		Community:  community,
		Comparison: Compare(personal, community),
	}, nil
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.repo.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
