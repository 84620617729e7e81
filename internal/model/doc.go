// Package model defines domain entities and data structures for the Tourbook API.
//
// The model package contains the struct definitions for domain objects, request
// types, and the normalized error type. Models are used across all layers of the
// application.
//
// # Domain Entities
//
//   - Tour: A bookable tour carrying a denormalized RatingSummary
//   - Review: A rating of one tour by one user
//   - User: Application user with an embedded Credential
//
// # Rating Summary
//
// SummarizeRatings is the pure projection from a tour's review ratings to its
// summary. An empty set yields zero reviews and DefaultRatingsAverage:
//
//	model.SummarizeRatings(nil)          // {Quantity: 0, Average: 4.5}
//	model.SummarizeRatings([]int{4, 5})  // {Quantity: 2, Average: 4.5}
//
// # Validation
//
// Request and entity structs carry go-playground/validator tags. Validate
// returns a *ValidationError with one message per failing field.
//
// # Error Types
//
// AppError is the normalized error every failure is translated into before it
// is rendered. Operational errors carry a message that is safe to show.
package model
