package model

import "time"

// Rating bounds for a review
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating of a tour. Every review belongs to exactly one
// tour, whose rating summary is derived from its reviews.
type Review struct {
	ID        string    `json:"id"`
	Review    string    `json:"review" validate:"required"`
	Rating    int       `json:"rating" validate:"required,gte=1,lte=5"`
	TourID    string    `json:"tour_id" validate:"required"`
	UserID    string    `json:"user_id" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateReviewRequest is the body of a new review. The tour comes from the
// route and the author from the authenticated user.
type CreateReviewRequest struct {
	Review string `json:"review"`
	Rating int    `json:"rating"`
}

// UpdateReviewRequest patches a review. The parent tour and author are fixed
// at creation time and cannot be changed.
type UpdateReviewRequest struct {
	Review *string `json:"review,omitempty" validate:"omitnil,min=1"`
	Rating *int    `json:"rating,omitempty" validate:"omitnil,gte=1,lte=5"`
}

// IsEmpty reports whether the patch changes nothing.
func (r *UpdateReviewRequest) IsEmpty() bool {
	return r.Review == nil && r.Rating == nil
}
