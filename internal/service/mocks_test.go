package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/forgo/tourbook/api/internal/database"
	"github.com/forgo/tourbook/api/internal/model"
)

// Mock implementations

// plainHasher is a fast PasswordHasher for tests
type plainHasher struct {
	hashErr error
}

func (h *plainHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *plainHasher) Verify(password, hash string) (bool, error) {
	if !strings.HasPrefix(hash, "hashed:") {
		return false, fmt.Errorf("malformed hash")
	}
	return hash == "hashed:"+password, nil
}

// testClock is a settable clock
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// mockUserRepo stores users in memory. It applies scopes the way the real
// repository does and counts credential writes.
type mockUserRepo struct {
	users     map[string]*model.User
	scopes    []model.UserScope
	saves     int
	nextID    int
	createErr error
	getErr    error
	saveErr   error
	setActErr error

	// ignoreExpiry makes FindByResetToken skip the expiry check
	ignoreExpiry bool
	// onConsume runs before the conditional write of a reset
	onConsume func()
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) visible(u *model.User, scope model.UserScope) bool {
	m.scopes = append(m.scopes, scope)
	return u != nil && (scope == model.AllUsers || u.Active)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return &database.DuplicateError{Field: "email", Value: user.Email}
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user:u%d", m.nextID)
	user.Active = true
	user.CreatedAt = time.Now()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string, scope model.UserScope) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u := m.users[id]
	if !m.visible(u, scope) {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string, scope model.UserScope) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Email == email {
			if !m.visible(u, scope) {
				return nil, nil
			}
			copied := *u
			return &copied, nil
		}
	}
	m.scopes = append(m.scopes, scope)
	return nil, nil
}

func (m *mockUserRepo) FindByResetToken(ctx context.Context, digest string, now time.Time, scope model.UserScope) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.PasswordResetToken == nil || *u.PasswordResetToken != digest {
			continue
		}
		if !m.ignoreExpiry && (u.PasswordResetExpires == nil || !u.PasswordResetExpires.After(now)) {
			continue
		}
		if !m.visible(u, scope) {
			return nil, nil
		}
		copied := *u
		return &copied, nil
	}
	m.scopes = append(m.scopes, scope)
	return nil, nil
}

func (m *mockUserRepo) SaveCredential(ctx context.Context, user *model.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	stored, ok := m.users[user.ID]
	if !ok {
		return database.ErrNotFound
	}
	m.saves++
	stored.Credential = user.Credential
	return nil
}

func (m *mockUserRepo) ConsumeResetCredential(ctx context.Context, user *model.User, digest string, now time.Time) (bool, error) {
	if m.onConsume != nil {
		m.onConsume()
	}
	if m.saveErr != nil {
		return false, m.saveErr
	}
	stored, ok := m.users[user.ID]
	if !ok {
		return false, nil
	}
	if stored.PasswordResetToken == nil || *stored.PasswordResetToken != digest {
		return false, nil
	}
	if stored.PasswordResetExpires == nil || !stored.PasswordResetExpires.After(now) {
		return false, nil
	}
	m.saves++
	stored.Credential = user.Credential
	return true, nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	if m.setActErr != nil {
		return m.setActErr
	}
	if u, ok := m.users[id]; ok {
		u.Active = active
	}
	return nil
}

// mockReviewRepo stores reviews in memory
type mockReviewRepo struct {
	reviews   map[string]*model.Review
	nextID    int
	createErr error
	listErr   error
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: make(map[string]*model.Review)}
}

func (m *mockReviewRepo) Create(ctx context.Context, review *model.Review) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	review.ID = fmt.Sprintf("review:r%d", m.nextID)
	review.CreatedAt = time.Now()
	stored := *review
	m.reviews[review.ID] = &stored
	return nil
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*model.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (m *mockReviewRepo) ListByTour(ctx context.Context, tourID string) ([]*model.Review, error) {
	var out []*model.Review
	for _, r := range m.reviews {
		if r.TourID == tourID {
			copied := *r
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockReviewRepo) ListRatingsByTour(ctx context.Context, tourID string) ([]int, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var ratings []int
	for _, r := range m.reviews {
		if r.TourID == tourID {
			ratings = append(ratings, r.Rating)
		}
	}
	return ratings, nil
}

func (m *mockReviewRepo) UpdateByID(ctx context.Context, id string, patch *model.UpdateReviewRequest) (*model.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, nil
	}
	if patch.Review != nil {
		r.Review = *patch.Review
	}
	if patch.Rating != nil {
		r.Rating = *patch.Rating
	}
	copied := *r
	return &copied, nil
}

func (m *mockReviewRepo) DeleteByID(ctx context.Context, id string) (*model.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, nil
	}
	delete(m.reviews, id)
	return r, nil
}

// mockTourRepo stores tour summaries in memory
type mockTourRepo struct {
	tours     map[string]*model.Tour
	writes    int
	updateErr error
}

func newMockTourRepo(ids ...string) *mockTourRepo {
	m := &mockTourRepo{tours: make(map[string]*model.Tour)}
	for _, id := range ids {
		m.tours[id] = &model.Tour{
			ID:            id,
			RatingSummary: model.RatingSummary{Average: model.DefaultRatingsAverage},
		}
	}
	return m
}

func (m *mockTourRepo) GetByID(ctx context.Context, id string) (*model.Tour, error) {
	t, ok := m.tours[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (m *mockTourRepo) ListIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.tours))
	for id := range m.tours {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockTourRepo) UpdateRatingSummary(ctx context.Context, tourID string, summary model.RatingSummary) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	t, ok := m.tours[tourID]
	if !ok {
		return database.ErrNotFound
	}
	m.writes++
	t.RatingSummary = summary
	return nil
}

func (m *mockTourRepo) summary(id string) model.RatingSummary {
	return m.tours[id].RatingSummary
}

// recordingMailer captures sent reset links
type recordingMailer struct {
	urls []string
	err  error
}

func (m *recordingMailer) SendPasswordReset(ctx context.Context, user *model.User, resetURL string) error {
	if m.err != nil {
		return m.err
	}
	m.urls = append(m.urls, resetURL)
	return nil
}
