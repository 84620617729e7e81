// Package repository implements the data access layer for the Tourbook API.
//
// The repository package contains all database operations using SurrealDB.
// Each repository struct handles the operations for one domain entity.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Create, GetByID, UpdateByID, ...)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//
// # Record Identifiers
//
// Ids arrive from URLs as "table:ident" or a bare ident. They are checked
// before any statement runs; a malformed id returns *database.CastError.
//
// # Reviews
//
// ReviewRepository only mutates one record at a time. UpdateByID returns the
// document after the change and DeleteByID the document before deletion, so
// callers always learn which tour was affected.
//
// # Users
//
// Every user finder takes a model.UserScope. With model.ActiveUsers
// deactivated accounts are invisible.
//
// # Example Usage
//
//	repo := NewReviewRepository(db)
//	review, err := repo.DeleteByID(ctx, "review:abc123")
//	if err != nil {
//	    return err
//	}
//	if review == nil {
//	    // Handle not found
//	}
package repository
