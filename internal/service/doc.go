// Package service implements the business logic layer for the Tourbook API.
//
// The service package contains the domain logic, validation rules, and
// orchestration of repository operations. Services are the primary
// abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Rating Consistency
//
// Every tour stores a RatingSummary derived from its reviews. ReviewService is
// the only path through which reviews change; after each committed create,
// update or delete it runs its ReviewHooks in order. RatingRecalculator is the
// hook that rebuilds the affected tour's summary from scratch:
//
//	ratings := service.NewRatingRecalculator(service.RatingRecalculatorConfig{
//	    Reviews: reviewRepo,
//	    Tours:   tourRepo,
//	})
//	reviews := service.NewReviewService(service.ReviewServiceConfig{
//	    Repo:  reviewRepo,
//	    Tours: tourRepo,
//	    Hooks: []service.ReviewHook{ratings},
//	})
//
// A hook failure does not undo the mutation. The caller gets the committed
// review together with an error wrapping *RecomputeError.
//
// # Credentials
//
// CredentialService hashes passwords with bcrypt, records when a password
// changed, and issues single-use reset tokens of which only the SHA-256 digest
// is stored.
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables
// in errors.go. Infrastructure failures are wrapped with samber/oops codes.
package service
