package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forgo/tourbook/api/internal/middleware"
	"github.com/forgo/tourbook/api/internal/model"
	"github.com/forgo/tourbook/api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Mock ReviewService
// ============================================================================

type mockReviewService struct {
	createFunc func(ctx context.Context, tourID, userID string, req *model.CreateReviewRequest) (*model.Review, error)
	getFunc    func(ctx context.Context, id string) (*model.Review, error)
	listFunc   func(ctx context.Context, tourID string) ([]*model.Review, error)
	updateFunc func(ctx context.Context, id string, req *model.UpdateReviewRequest) (*model.Review, error)
	deleteFunc func(ctx context.Context, id string) (*model.Review, error)
}

func (m *mockReviewService) CreateReview(ctx context.Context, tourID, userID string, req *model.CreateReviewRequest) (*model.Review, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, tourID, userID, req)
	}
	return nil, nil
}

func (m *mockReviewService) GetReview(ctx context.Context, id string) (*model.Review, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, service.ErrReviewNotFound
}

func (m *mockReviewService) ListTourReviews(ctx context.Context, tourID string) ([]*model.Review, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, tourID)
	}
	return nil, nil
}

func (m *mockReviewService) UpdateReview(ctx context.Context, id string, req *model.UpdateReviewRequest) (*model.Review, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, req)
	}
	return nil, service.ErrReviewNotFound
}

func (m *mockReviewService) DeleteReview(ctx context.Context, id string) (*model.Review, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil, service.ErrReviewNotFound
}

// ============================================================================
// Test Helpers
// ============================================================================

func newTestUser(role model.UserRole) *model.User {
	return &model.User{
		ID:        "user:u1",
		Name:      "Test User",
		Email:     "test@example.com",
		Role:      role,
		Active:    true,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// signedInAs stands in for middleware.Protect
func signedInAs(user *model.User) middleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user == nil {
				newTestResponder(false, nil).Respond(w, r, service.ErrNotLoggedIn)
				return
			}
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), user)))
		})
	}
}

func makeJSONRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func newReviewMux(svc ReviewService, user *model.User) *http.ServeMux {
	mux := http.NewServeMux()
	NewReviewHandler(svc, newTestResponder(false, nil)).RegisterRoutes(mux, signedInAs(user))
	return mux
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ============================================================================
// Create Tests
// ============================================================================

func TestCreateReview_UsesPathTourAndSignedInUser(t *testing.T) {
	t.Parallel()

	var gotTour, gotUser string
	svc := &mockReviewService{
		createFunc: func(ctx context.Context, tourID, userID string, req *model.CreateReviewRequest) (*model.Review, error) {
			gotTour, gotUser = tourID, userID
			return &model.Review{ID: "review:r1", TourID: "tour:" + tourID, UserID: userID, Review: req.Review, Rating: req.Rating}, nil
		},
	}

	rec := httptest.NewRecorder()
	newReviewMux(svc, newTestUser(model.UserRoleUser)).ServeHTTP(rec,
		makeJSONRequest(http.MethodPost, "/api/v1/tours/t1/reviews", map[string]interface{}{"review": "Lovely", "rating": 5}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "t1", gotTour)
	assert.Equal(t, "user:u1", gotUser)

	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	review := body["data"].(map[string]interface{})["review"].(map[string]interface{})
	assert.Equal(t, "review:r1", review["id"])
	assert.Equal(t, float64(5), review["rating"])
}

func TestCreateReview_RequiresSignIn(t *testing.T) {
	t.Parallel()

	called := false
	svc := &mockReviewService{
		createFunc: func(ctx context.Context, tourID, userID string, req *model.CreateReviewRequest) (*model.Review, error) {
			called = true
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	newReviewMux(svc, nil).ServeHTTP(rec,
		makeJSONRequest(http.MethodPost, "/api/v1/tours/t1/reviews", map[string]interface{}{"review": "x", "rating": 3}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestCreateReview_AdminsCannotAuthor(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newReviewMux(&mockReviewService{}, newTestUser(model.UserRoleAdmin)).ServeHTTP(rec,
		makeJSONRequest(http.MethodPost, "/api/v1/tours/t1/reviews", map[string]interface{}{"review": "x", "rating": 3}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "fail", decodeBody(t, rec)["status"])
}

func TestCreateReview_UnknownFieldRejected(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newReviewMux(&mockReviewService{}, newTestUser(model.UserRoleUser)).ServeHTTP(rec,
		makeJSONRequest(http.MethodPost, "/api/v1/tours/t1/reviews", map[string]interface{}{"review": "x", "rating": 3, "user_id": "user:other"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReview_ValidationFailure(t *testing.T) {
	t.Parallel()

	svc := &mockReviewService{
		createFunc: func(ctx context.Context, tourID, userID string, req *model.CreateReviewRequest) (*model.Review, error) {
			return nil, &model.ValidationError{Errors: []model.FieldError{{Field: "rating", Message: "rating must be less than or equal to 5"}}}
		},
	}

	rec := httptest.NewRecorder()
	newReviewMux(svc, newTestUser(model.UserRoleUser)).ServeHTTP(rec,
		makeJSONRequest(http.MethodPost, "/api/v1/tours/t1/reviews", map[string]interface{}{"review": "x", "rating": 9}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid input data. rating must be less than or equal to 5.", decodeBody(t, rec)["message"])
}

func TestCreateReview_RecomputeFailureIsMasked(t *testing.T) {
	t.Parallel()

	svc := &mockReviewService{
		createFunc: func(ctx context.Context, tourID, userID string, req *model.CreateReviewRequest) (*model.Review, error) {
			return &model.Review{ID: "review:r1"}, &service.RecomputeError{Op: service.ReviewCreated, TourID: "tour:t1", Err: errors.New("write failed")}
		},
	}

	rec := httptest.NewRecorder()
	newReviewMux(svc, newTestUser(model.UserRoleUser)).ServeHTTP(rec,
		makeJSONRequest(http.MethodPost, "/api/v1/tours/t1/reviews", map[string]interface{}{"review": "x", "rating": 4}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Whoops, something went wrong", decodeBody(t, rec)["message"])
}

// ============================================================================
// Read / Update / Delete Tests
// ============================================================================

func TestListTourReviews(t *testing.T) {
	t.Parallel()

	svc := &mockReviewService{
		listFunc: func(ctx context.Context, tourID string) ([]*model.Review, error) {
			assert.Equal(t, "t1", tourID)
			return []*model.Review{{ID: "review:r1"}, {ID: "review:r2"}}, nil
		},
	}

	rec := httptest.NewRecorder()
	newReviewMux(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tours/t1/reviews", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["results"])
}

func TestListTourReviews_EmptyIsArray(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newReviewMux(&mockReviewService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tours/t1/reviews", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reviews":[]`)
}

func TestGetReview_NotFound(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newReviewMux(&mockReviewService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reviews/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No review found with that ID.", decodeBody(t, rec)["message"])
}

func TestUpdateReview_PassesPatch(t *testing.T) {
	t.Parallel()

	svc := &mockReviewService{
		updateFunc: func(ctx context.Context, id string, req *model.UpdateReviewRequest) (*model.Review, error) {
			require.NotNil(t, req.Rating)
			assert.Nil(t, req.Review)
			return &model.Review{ID: id, Rating: *req.Rating}, nil
		},
	}

	rec := httptest.NewRecorder()
	newReviewMux(svc, newTestUser(model.UserRoleAdmin)).ServeHTTP(rec,
		makeJSONRequest(http.MethodPatch, "/api/v1/reviews/r1", map[string]interface{}{"rating": 2}))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateReview_GuidesForbidden(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newReviewMux(&mockReviewService{}, newTestUser(model.UserRoleGuide)).ServeHTTP(rec,
		makeJSONRequest(http.MethodPatch, "/api/v1/reviews/r1", map[string]interface{}{"rating": 2}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteReview(t *testing.T) {
	t.Parallel()

	svc := &mockReviewService{
		deleteFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return &model.Review{ID: id}, nil
		},
	}

	rec := httptest.NewRecorder()
	newReviewMux(svc, newTestUser(model.UserRoleUser)).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/r1", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
