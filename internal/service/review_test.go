package service

import (
	"context"
	"errors"
	"testing"

	"github.com/forgo/tourbook/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hookCall struct {
	op     ReviewOp
	tourID string
}

func newTestReviewService(t *testing.T, hooks ...ReviewHook) (*ReviewService, *mockReviewRepo, *mockTourRepo) {
	t.Helper()
	reviews := newMockReviewRepo()
	tours := newMockTourRepo("tour:t1", "tour:t2")
	svc := NewReviewService(ReviewServiceConfig{
		Repo:  reviews,
		Tours: tours,
		Hooks: append([]ReviewHook{newTestRecalculator(reviews, tours)}, hooks...),
	})
	return svc, reviews, tours
}

func TestCreateReview_RecomputesTour(t *testing.T) {
	t.Parallel()
	svc, _, tours := newTestReviewService(t)
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, "tour:t1", "user:u1", &model.CreateReviewRequest{Review: "Great", Rating: 4})
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, "tour:t1", "user:u2", &model.CreateReviewRequest{Review: "Fine", Rating: 3})
	require.NoError(t, err)

	assert.Equal(t, model.RatingSummary{Quantity: 2, Average: 3.5}, tours.summary("tour:t1"))
	assert.Equal(t, model.RatingSummary{Quantity: 0, Average: 4.5}, tours.summary("tour:t2"), "other tours are untouched")
}

func TestCreateReview_InvalidRatingDoesNotPersist(t *testing.T) {
	t.Parallel()
	svc, reviews, tours := newTestReviewService(t)

	_, err := svc.CreateReview(context.Background(), "tour:t1", "user:u1", &model.CreateReviewRequest{Review: "Bad", Rating: 7})

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, reviews.reviews)
	assert.Zero(t, tours.writes)
}

func TestCreateReview_BlankTextRejected(t *testing.T) {
	t.Parallel()
	svc, reviews, tours := newTestReviewService(t)

	_, err := svc.CreateReview(context.Background(), "tour:t1", "user:u1", &model.CreateReviewRequest{Review: " \t\n ", Rating: 4})

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, reviews.reviews)
	assert.Zero(t, tours.writes)
}

func TestCreateReview_TrimsText(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestReviewService(t)

	r, err := svc.CreateReview(context.Background(), "tour:t1", "user:u1", &model.CreateReviewRequest{Review: "  Great hike \n", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, "Great hike", r.Review)
}

func TestCreateReview_UnknownTour(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestReviewService(t)

	_, err := svc.CreateReview(context.Background(), "tour:nope", "user:u1", &model.CreateReviewRequest{Review: "x", Rating: 3})
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestUpdateReview_UsesAffectedDocumentsTour(t *testing.T) {
	t.Parallel()
	svc, _, tours := newTestReviewService(t)
	ctx := context.Background()

	r, err := svc.CreateReview(ctx, "tour:t2", "user:u1", &model.CreateReviewRequest{Review: "Meh", Rating: 2})
	require.NoError(t, err)

	rating := 5
	updated, err := svc.UpdateReview(ctx, r.ID, &model.UpdateReviewRequest{Rating: &rating})
	require.NoError(t, err)

	assert.Equal(t, "tour:t2", updated.TourID)
	assert.Equal(t, model.RatingSummary{Quantity: 1, Average: 5}, tours.summary("tour:t2"))
}

func TestUpdateReview_NotFound(t *testing.T) {
	t.Parallel()
	svc, _, tours := newTestReviewService(t)

	rating := 3
	_, err := svc.UpdateReview(context.Background(), "review:missing", &model.UpdateReviewRequest{Rating: &rating})

	assert.ErrorIs(t, err, ErrReviewNotFound)
	assert.Zero(t, tours.writes, "no recompute without an affected document")
}

func TestUpdateReview_RejectsEmptyText(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestReviewService(t)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := svc.UpdateReview(context.Background(), "review:r1", &model.UpdateReviewRequest{Review: &text})

		var verr *model.ValidationError
		assert.ErrorAs(t, err, &verr, "text %q", text)
	}
}

func TestUpdateReview_TrimsText(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestReviewService(t)
	ctx := context.Background()

	r, err := svc.CreateReview(ctx, "tour:t1", "user:u1", &model.CreateReviewRequest{Review: "Meh", Rating: 2})
	require.NoError(t, err)

	text := "  Better than expected  "
	updated, err := svc.UpdateReview(ctx, r.ID, &model.UpdateReviewRequest{Review: &text})
	require.NoError(t, err)

	assert.Equal(t, "Better than expected", updated.Review)
	assert.Equal(t, "  Better than expected  ", text, "the caller's request is not modified")
}

func TestDeleteReview_LastReviewResetsDefault(t *testing.T) {
	t.Parallel()
	svc, _, tours := newTestReviewService(t)
	ctx := context.Background()

	r, err := svc.CreateReview(ctx, "tour:t1", "user:u1", &model.CreateReviewRequest{Review: "Low", Rating: 1})
	require.NoError(t, err)
	require.Equal(t, 1.0, tours.summary("tour:t1").Average)

	deleted, err := svc.DeleteReview(ctx, r.ID)
	require.NoError(t, err)

	assert.Equal(t, r.ID, deleted.ID)
	assert.Equal(t, model.RatingSummary{Quantity: 0, Average: 4.5}, tours.summary("tour:t1"))
}

func TestDeleteReview_NotFound(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestReviewService(t)

	_, err := svc.DeleteReview(context.Background(), "review:missing")
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewHooks_RunInOrderWithOp(t *testing.T) {
	t.Parallel()

	var calls []hookCall
	recorder := ReviewHookFunc(func(ctx context.Context, op ReviewOp, review *model.Review) error {
		calls = append(calls, hookCall{op: op, tourID: review.TourID})
		return nil
	})
	svc, _, _ := newTestReviewService(t, recorder)
	ctx := context.Background()

	r, err := svc.CreateReview(ctx, "tour:t1", "user:u1", &model.CreateReviewRequest{Review: "x", Rating: 3})
	require.NoError(t, err)
	text := "y"
	_, err = svc.UpdateReview(ctx, r.ID, &model.UpdateReviewRequest{Review: &text})
	require.NoError(t, err)
	_, err = svc.DeleteReview(ctx, r.ID)
	require.NoError(t, err)

	assert.Equal(t, []hookCall{
		{ReviewCreated, "tour:t1"},
		{ReviewUpdated, "tour:t1"},
		{ReviewDeleted, "tour:t1"},
	}, calls)
}

func TestReviewHooks_FailureKeepsMutation(t *testing.T) {
	t.Parallel()
	svc, reviews, tours := newTestReviewService(t)
	tours.updateErr = errors.New("tour store unavailable")

	review, err := svc.CreateReview(context.Background(), "tour:t1", "user:u1", &model.CreateReviewRequest{Review: "x", Rating: 5})

	require.Error(t, err)
	var recErr *RecomputeError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, ReviewCreated, recErr.Op)
	assert.Equal(t, "tour:t1", recErr.TourID)

	require.NotNil(t, review, "the committed review is still returned")
	assert.Contains(t, reviews.reviews, review.ID, "the mutation is not rolled back")
}

func TestReviewHooks_StopAtFirstFailure(t *testing.T) {
	t.Parallel()

	called := false
	failing := ReviewHookFunc(func(ctx context.Context, op ReviewOp, review *model.Review) error {
		return errors.New("boom")
	})
	after := ReviewHookFunc(func(ctx context.Context, op ReviewOp, review *model.Review) error {
		called = true
		return nil
	})
	svc, _, _ := newTestReviewService(t, failing, after)

	_, err := svc.CreateReview(context.Background(), "tour:t1", "user:u1", &model.CreateReviewRequest{Review: "x", Rating: 5})

	require.Error(t, err)
	assert.False(t, called)
}

func TestGetReview(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestReviewService(t)
	ctx := context.Background()

	r, err := svc.CreateReview(ctx, "tour:t1", "user:u1", &model.CreateReviewRequest{Review: "x", Rating: 5})
	require.NoError(t, err)

	got, err := svc.GetReview(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	_, err = svc.GetReview(ctx, "review:missing")
	assert.ErrorIs(t, err, ErrReviewNotFound)

	list, err := svc.ListTourReviews(ctx, "tour:t1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
