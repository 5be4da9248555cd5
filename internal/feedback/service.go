package feedback

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the feedback service.
type ServiceConfig struct {
	Store  Store
	Logger zerolog.Logger

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// Service accepts and lists feedback.
type Service struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

// NewService creates a new feedback service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	newID := cfg.NewID
	if newID == nil {
		newID = func() string { return "fb_" + uuid.New().String()[:22] }
	}

	return &Service{
		store:  cfg.Store,
		logger: cfg.Logger,
		now:    now,
		newID:  newID,
	}
}

// Validate checks a rating and comment without storing anything.
func Validate(rating int, comment string) error {
	if rating < MinRating || rating > MaxRating {
		return &ValidationError{
			Field:  "rating",
			Reason: fmt.Sprintf("must be between %d and %d", MinRating, MaxRating),
		}
	}
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return &ValidationError{
			Field:  "comment",
			Reason: fmt.Sprintf("must be at most %d characters", MaxCommentLength),
		}
	}
	return nil
}

// Submit stores feedback from the owner. Surrounding whitespace is trimmed
// from the comment.
func (s *Service) Submit(ctx context.Context, ownerID string, rating int, comment string) (*Entry, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	comment = strings.TrimSpace(comment)
	if err := Validate(rating, comment); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: s.now().UTC(),
	}

	saved, err := s.store.Create(ctx, entry)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", ownerID).
			Msg("failed to store feedback")
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	s.logger.Info().
		Str("feedback_id", saved.ID).
		Int("rating", saved.Rating).
		Msg("feedback received")

	return saved, nil
}

// List returns the owner's feedback, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]*Entry, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	entries, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return entries, nil
}
