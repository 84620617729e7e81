package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/forgo/tourbook/api/internal/database"
	"github.com/forgo/tourbook/api/internal/model"
)

// ReviewRepository handles review data access. It only exposes single-record
// mutations so that every change can be attributed to exactly one tour.
type ReviewRepository struct {
	db database.Database
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db database.Database) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create creates a new review
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	tourID, err := recordID("tour", "tour", review.TourID)
	if err != nil {
		return err
	}
	userID, err := recordID("user", "user", review.UserID)
	if err != nil {
		return err
	}

	query := `
		CREATE review CONTENT {
			review: $review,
			rating: $rating,
			tour: type::record($tour_id),
			user: type::record($user_id),
			created_at: time::now()
		}
	`

	vars := map[string]interface{}{
		"review":  review.Review,
		"rating":  review.Rating,
		"tour_id": tourID,
		"user_id": userID,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	records := extractQueryResults(result)
	if len(records) == 0 {
		return database.ErrNotFound
	}
	created, err := parseReview(records[0])
	if err != nil {
		return err
	}

	*review = *created
	return nil
}

// GetByID retrieves a review by ID. Returns nil if it does not exist.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*model.Review, error) {
	rid, err := recordID("review", "id", id)
	if err != nil {
		return nil, err
	}

	// Direct record access - more efficient than WHERE id =
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": rid}

	return r.queryOne(ctx, query, vars)
}

// ListByTour retrieves the reviews of a tour, newest first
func (r *ReviewRepository) ListByTour(ctx context.Context, tourID string) ([]*model.Review, error) {
	tid, err := recordID("tour", "tour", tourID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT * FROM review
		WHERE tour = type::record($tour_id)
		ORDER BY created_at DESC
	`
	vars := map[string]interface{}{"tour_id": tid}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := extractQueryResults(result)
	reviews := make([]*model.Review, 0, len(records))
	for _, rec := range records {
		review, err := parseReview(rec)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// ListRatingsByTour returns the rating of every review of a tour
func (r *ReviewRepository) ListRatingsByTour(ctx context.Context, tourID string) ([]int, error) {
	tid, err := recordID("tour", "tour", tourID)
	if err != nil {
		return nil, err
	}

	query := `SELECT VALUE rating FROM review WHERE tour = type::record($tour_id)`
	vars := map[string]interface{}{"tour_id": tid}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	values := extractQueryResults(result)
	ratings := make([]int, 0, len(values))
	for _, v := range values {
		ratings = append(ratings, toInt(v))
	}
	return ratings, nil
}

// UpdateByID applies patch to one review and returns the document after the
// change. Returns nil if the review does not exist.
func (r *ReviewRepository) UpdateByID(ctx context.Context, id string, patch *model.UpdateReviewRequest) (*model.Review, error) {
	rid, err := recordID("review", "id", id)
	if err != nil {
		return nil, err
	}

	sets := []string{}
	vars := map[string]interface{}{"id": rid}
	if patch.Review != nil {
		sets = append(sets, "review = $review")
		vars["review"] = *patch.Review
	}
	if patch.Rating != nil {
		sets = append(sets, "rating = $rating")
		vars["rating"] = *patch.Rating
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, rid)
	}

	// UPDATE on a record id never creates the record
	query := "UPDATE type::record($id) SET " + strings.Join(sets, ", ") + " RETURN AFTER"

	return r.queryOne(ctx, query, vars)
}

// DeleteByID removes one review and returns the document as it was before
// deletion. Returns nil if the review does not exist.
func (r *ReviewRepository) DeleteByID(ctx context.Context, id string) (*model.Review, error) {
	rid, err := recordID("review", "id", id)
	if err != nil {
		return nil, err
	}

	query := `DELETE type::record($id) RETURN BEFORE`
	vars := map[string]interface{}{"id": rid}

	return r.queryOne(ctx, query, vars)
}

func (r *ReviewRepository) queryOne(ctx context.Context, query string, vars map[string]interface{}) (*model.Review, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	review, err := parseReview(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return review, nil
}

func parseReview(result interface{}) (*model.Review, error) {
	data, err := asRecord(result)
	if err != nil {
		return nil, err
	}

	return &model.Review{
		ID:        convertSurrealID(data["id"]),
		Review:    getString(data, "review"),
		Rating:    getInt(data, "rating"),
		TourID:    convertSurrealID(data["tour"]),
		UserID:    convertSurrealID(data["user"]),
		CreatedAt: getTimeValue(data, "created_at"),
	}, nil
}
