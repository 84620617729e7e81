package handler

import (
	"context"
	"net/http"

	"github.com/forgo/tourbook/api/internal/middleware"
	"github.com/forgo/tourbook/api/internal/model"
)

// ReviewService is the review API the review handler depends on
type ReviewService interface {
	CreateReview(ctx context.Context, tourID, userID string, req *model.CreateReviewRequest) (*model.Review, error)
	GetReview(ctx context.Context, id string) (*model.Review, error)
	ListTourReviews(ctx context.Context, tourID string) ([]*model.Review, error)
	UpdateReview(ctx context.Context, id string, req *model.UpdateReviewRequest) (*model.Review, error)
	DeleteReview(ctx context.Context, id string) (*model.Review, error)
}

// ReviewHandler handles tour review endpoints
type ReviewHandler struct {
	reviews ReviewService
	errors  *ErrorResponder
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews ReviewService, errors *ErrorResponder) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		errors:  errors,
	}
}

type reviewData struct {
	Review *model.Review `json:"review"`
}

type reviewsData struct {
	Reviews []*model.Review `json:"reviews"`
}

// ListTourReviews handles GET /api/v1/tours/{tourId}/reviews
func (h *ReviewHandler) ListTourReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListTourReviews(r.Context(), r.PathValue("tourId"))
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []*model.Review{}
	}

	WriteCollection(w, http.StatusOK, len(reviews), reviewsData{Reviews: reviews})
}

// CreateReview handles POST /api/v1/tours/{tourId}/reviews. The author is
// always the authenticated user.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		h.errors.Respond(w, r, model.NewUnauthorizedError("You are not logged in! Please log in to get access.", nil))
		return
	}

	var req model.CreateReviewRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, model.NewInvalidInputError("Invalid request body.", err))
		return
	}

	review, err := h.reviews.CreateReview(r.Context(), r.PathValue("tourId"), userID, &req)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	WriteData(w, http.StatusCreated, reviewData{Review: review})
}

// GetReview handles GET /api/v1/reviews/{reviewId}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.GetReview(r.Context(), r.PathValue("reviewId"))
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, reviewData{Review: review})
}

// UpdateReview handles PATCH /api/v1/reviews/{reviewId}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateReviewRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, model.NewInvalidInputError("Invalid request body.", err))
		return
	}

	review, err := h.reviews.UpdateReview(r.Context(), r.PathValue("reviewId"), &req)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, reviewData{Review: review})
}

// DeleteReview handles DELETE /api/v1/reviews/{reviewId}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if _, err := h.reviews.DeleteReview(r.Context(), r.PathValue("reviewId")); err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	WriteNoContent(w)
}

// RegisterRoutes registers review routes. Reading is public; writing needs
// a signed-in user, and only regular users author reviews.
func (h *ReviewHandler) RegisterRoutes(mux *http.ServeMux, protect middleware.Middleware) {
	authors := middleware.RestrictTo(h.errors, model.UserRoleUser)
	editors := middleware.RestrictTo(h.errors, model.UserRoleUser, model.UserRoleAdmin)

	mux.HandleFunc("GET /api/v1/tours/{tourId}/reviews", h.ListTourReviews)
	mux.Handle("POST /api/v1/tours/{tourId}/reviews", protect(authors(http.HandlerFunc(h.CreateReview))))

	mux.HandleFunc("GET /api/v1/reviews/{reviewId}", h.GetReview)
	mux.Handle("PATCH /api/v1/reviews/{reviewId}", protect(editors(http.HandlerFunc(h.UpdateReview))))
	mux.Handle("DELETE /api/v1/reviews/{reviewId}", protect(editors(http.HandlerFunc(h.DeleteReview))))
}
