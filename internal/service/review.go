package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/forgo/tourbook/api/internal/model"
	"github.com/samber/oops"
)

// ReviewOp names a committed review mutation
type ReviewOp string

const (
	ReviewCreated ReviewOp = "review_created"
	ReviewUpdated ReviewOp = "review_updated"
	ReviewDeleted ReviewOp = "review_deleted"
)

// ReviewHook runs after a review mutation has been persisted. review is the
// affected document: the new state for create and update, the removed state
// for delete.
type ReviewHook interface {
	AfterReviewMutation(ctx context.Context, op ReviewOp, review *model.Review) error
}

// ReviewHookFunc adapts a function to ReviewHook
type ReviewHookFunc func(ctx context.Context, op ReviewOp, review *model.Review) error

// AfterReviewMutation calls f
func (f ReviewHookFunc) AfterReviewMutation(ctx context.Context, op ReviewOp, review *model.Review) error {
	return f(ctx, op, review)
}

// ReviewRepository defines the interface for review storage. It only offers
// single-record mutations that report the affected document.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id string) (*model.Review, error)
	ListByTour(ctx context.Context, tourID string) ([]*model.Review, error)
	UpdateByID(ctx context.Context, id string, patch *model.UpdateReviewRequest) (*model.Review, error)
	DeleteByID(ctx context.Context, id string) (*model.Review, error)
}

// TourReader looks up tours
type TourReader interface {
	GetByID(ctx context.Context, id string) (*model.Tour, error)
}

// ReviewService handles review business logic. It is the only path through
// which reviews are mutated, so every mutation is followed by its hooks.
type ReviewService struct {
	repo   ReviewRepository
	tours  TourReader
	hooks  []ReviewHook
	logger *slog.Logger
}

// ReviewServiceConfig holds configuration for the review service
type ReviewServiceConfig struct {
	Repo   ReviewRepository
	Tours  TourReader
	Hooks  []ReviewHook
	Logger *slog.Logger
}

// NewReviewService creates a new review service
func NewReviewService(cfg ReviewServiceConfig) *ReviewService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{
		repo:   cfg.Repo,
		tours:  cfg.Tours,
		hooks:  cfg.Hooks,
		logger: logger,
	}
}

// CreateReview creates a review of tourID by userID and recomputes the
// tour's rating summary. Surrounding whitespace is trimmed from the text,
// so blank text is rejected.
func (s *ReviewService) CreateReview(ctx context.Context, tourID, userID string, req *model.CreateReviewRequest) (*model.Review, error) {
	if s.tours != nil {
		tour, err := s.tours.GetByID(ctx, tourID)
		if err != nil {
			return nil, err
		}
		if tour == nil {
			return nil, ErrTourNotFound
		}
	}

	review := &model.Review{
		Review: strings.TrimSpace(req.Review),
		Rating: req.Rating,
		TourID: tourID,
		UserID: userID,
	}
	if err := model.Validate(review); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, s.runHooks(ctx, ReviewCreated, review)
}

// GetReview retrieves a review by ID
func (s *ReviewService) GetReview(ctx context.Context, id string) (*model.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// ListTourReviews retrieves the reviews of a tour
func (s *ReviewService) ListTourReviews(ctx context.Context, tourID string) ([]*model.Review, error) {
	return s.repo.ListByTour(ctx, tourID)
}

// UpdateReview patches a review and recomputes the rating summary of the
// tour the updated document belongs to.
func (s *ReviewService) UpdateReview(ctx context.Context, id string, patch *model.UpdateReviewRequest) (*model.Review, error) {
	if patch.Review != nil {
		text := strings.TrimSpace(*patch.Review)
		trimmed := *patch
		trimmed.Review = &text
		patch = &trimmed
	}
	if err := model.Validate(patch); err != nil {
		return nil, err
	}

	review, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}

	return review, s.runHooks(ctx, ReviewUpdated, review)
}

// DeleteReview removes a review and recomputes the rating summary of the
// tour it belonged to.
func (s *ReviewService) DeleteReview(ctx context.Context, id string) (*model.Review, error) {
	review, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}

	return review, s.runHooks(ctx, ReviewDeleted, review)
}

// runHooks calls every hook in order. The mutation is already durable, so a
// failing hook is reported as a *RecomputeError without undoing it.
func (s *ReviewService) runHooks(ctx context.Context, op ReviewOp, review *model.Review) error {
	for _, hook := range s.hooks {
		if err := hook.AfterReviewMutation(ctx, op, review); err != nil {
			s.logger.Error("review hook failed",
				slog.String("op", string(op)),
				slog.String("review_id", review.ID),
				slog.String("tour_id", review.TourID),
				slog.String("error", err.Error()),
			)
			return oops.Code("RATING_RECOMPUTE_FAILED").
				With("op", string(op)).
				With("tour_id", review.TourID).
				Wrap(&RecomputeError{Op: op, TourID: review.TourID, Err: err})
		}
	}
	return nil
}
