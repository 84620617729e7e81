// Package fixtures provides test data factories for integration testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories insert through the
// repositories so records have exactly the shape the application writes.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	tour := f.CreateTour(t)
//	review := f.CreateReview(t, tour, user)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/tourbook/api/internal/database"
	"github.com/forgo/tourbook/api/internal/model"
	"github.com/forgo/tourbook/api/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plaintext password of every fixture user
const DefaultPassword = "testpass123"

// Factory creates test entities in the database
type Factory struct {
	users   *repository.UserRepository
	tours   *repository.TourRepository
	reviews *repository.ReviewRepository
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		users:   repository.NewUserRepository(db),
		tours:   repository.NewTourRepository(db),
		reviews: repository.NewReviewRepository(db),
	}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Name     string
	Email    string
	Password string
	Role     model.UserRole
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	id := randomID()
	o := &UserOpts{
		Name:     fmt.Sprintf("User %s", id),
		Email:    fmt.Sprintf("user_%s@test.local", id),
		Password: DefaultPassword,
		Role:     model.UserRoleUser,
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	user := &model.User{
		Name:       o.Name,
		Email:      o.Email,
		Role:       o.Role,
		Credential: model.Credential{PasswordHash: string(hash)},
	}
	if err := f.users.Create(ctx(t), user); err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}
	return user
}

// CreateAdmin creates an admin user
func (f *Factory) CreateAdmin(t *testing.T) *model.User {
	return f.CreateUser(t, func(o *UserOpts) {
		o.Role = model.UserRoleAdmin
	})
}

// Deactivate marks user inactive
func (f *Factory) Deactivate(t *testing.T, user *model.User) {
	t.Helper()
	if err := f.users.SetActive(ctx(t), user.ID, false); err != nil {
		t.Fatalf("fixtures: failed to deactivate user: %v", err)
	}
	user.Active = false
}

// ============================================================================
// Tour Fixtures
// ============================================================================

// CreateTour creates a tour with the default rating summary
func (f *Factory) CreateTour(t *testing.T) *model.Tour {
	t.Helper()

	tour := &model.Tour{Name: fmt.Sprintf("Tour %s", randomID())}
	if err := f.tours.Create(ctx(t), tour); err != nil {
		t.Fatalf("fixtures: failed to create tour: %v", err)
	}
	return tour
}

// ============================================================================
// Review Fixtures
// ============================================================================

// CreateReview stores a review of tour by author. rating defaults to 5.
// It writes through the repository only, so the tour summary is not touched.
func (f *Factory) CreateReview(t *testing.T, tour *model.Tour, author *model.User, rating ...int) *model.Review {
	t.Helper()

	r := 5
	if len(rating) > 0 {
		r = rating[0]
	}
	review := &model.Review{
		Review: fmt.Sprintf("Review %s", randomID()),
		Rating: r,
		TourID: tour.ID,
		UserID: author.ID,
	}
	if err := f.reviews.Create(ctx(t), review); err != nil {
		t.Fatalf("fixtures: failed to create review: %v", err)
	}
	return review
}
