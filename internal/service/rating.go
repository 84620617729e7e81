package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/forgo/tourbook/api/internal/database"
	"github.com/forgo/tourbook/api/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/oops"
)

var ratingRecomputesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tourbook_rating_recomputes_total",
		Help: "Total number of tour rating summary recomputations",
	},
	[]string{"result"},
)

// ReviewRatingSource reads the ratings of a tour's reviews
type ReviewRatingSource interface {
	ListRatingsByTour(ctx context.Context, tourID string) ([]int, error)
}

// TourRatingWriter stores tour rating summaries
type TourRatingWriter interface {
	ListIDs(ctx context.Context) ([]string, error)
	UpdateRatingSummary(ctx context.Context, tourID string, summary model.RatingSummary) error
}

// RatingRecalculator rebuilds a tour's rating summary from its reviews. Each
// recompute is a full reconstruction, so concurrent recomputes of one tour
// converge on the next write.
type RatingRecalculator struct {
	reviews ReviewRatingSource
	tours   TourRatingWriter
	logger  *slog.Logger
}

// RatingRecalculatorConfig holds configuration for the rating recalculator
type RatingRecalculatorConfig struct {
	Reviews ReviewRatingSource
	Tours   TourRatingWriter
	Logger  *slog.Logger
}

// NewRatingRecalculator creates a new rating recalculator
func NewRatingRecalculator(cfg RatingRecalculatorConfig) *RatingRecalculator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RatingRecalculator{
		reviews: cfg.Reviews,
		tours:   cfg.Tours,
		logger:  logger,
	}
}

// Recompute reads every rating of tourID and overwrites its stored summary.
// A tour that no longer exists is skipped.
func (r *RatingRecalculator) Recompute(ctx context.Context, tourID string) (model.RatingSummary, error) {
	ratings, err := r.reviews.ListRatingsByTour(ctx, tourID)
	if err != nil {
		ratingRecomputesTotal.WithLabelValues("error").Inc()
		return model.RatingSummary{}, oops.Code("RATING_RECOMPUTE_FAILED").
			With("tour_id", tourID).
			Wrapf(err, "list ratings")
	}

	summary := model.SummarizeRatings(ratings)

	if err := r.tours.UpdateRatingSummary(ctx, tourID, summary); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			ratingRecomputesTotal.WithLabelValues("skipped").Inc()
			r.logger.Debug("rating recompute skipped, tour not found", slog.String("tour_id", tourID))
			return summary, nil
		}
		ratingRecomputesTotal.WithLabelValues("error").Inc()
		return model.RatingSummary{}, oops.Code("RATING_RECOMPUTE_FAILED").
			With("tour_id", tourID).
			Wrapf(err, "store summary")
	}

	ratingRecomputesTotal.WithLabelValues("ok").Inc()
	return summary, nil
}

// RecomputeAll recomputes every tour. It continues past failures and returns
// them joined, together with the number of tours updated.
func (r *RatingRecalculator) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := r.tours.ListIDs(ctx)
	if err != nil {
		return 0, oops.Code("RATING_RECOMPUTE_FAILED").Wrapf(err, "list tours")
	}

	var errs []error
	updated := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := r.Recompute(ctx, id); err != nil {
			r.logger.Error("rating recompute failed",
				slog.String("tour_id", id),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err)
			continue
		}
		updated++
	}

	return updated, errors.Join(errs...)
}

// AfterReviewMutation implements ReviewHook
func (r *RatingRecalculator) AfterReviewMutation(ctx context.Context, op ReviewOp, review *model.Review) error {
	_, err := r.Recompute(ctx, review.TourID)
	return err
}
