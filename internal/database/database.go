// Package database provides the database abstraction layer for tourbook.
//
// This package defines the Database interface that abstracts SurrealDB operations,
// allowing for clean separation between business logic and data access.
//
// # Interface Design
//
// The Database interface provides three query methods:
//   - Query: Returns multiple results (for SELECT queries returning lists)
//   - QueryOne: Returns a single result (for SELECT by ID)
//   - Execute: No return value (for mutations whose result is not needed)
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: Unique constraint violation
//   - ErrConnection: Database connection issues
//   - ErrQuery: Query execution failures
//
// Two structured errors carry the offending field so the HTTP layer can
// build a precise message without parsing driver text:
//   - *CastError: a value could not be converted to the field's type
//     (malformed record identifiers)
//   - *DuplicateError: a unique index rejected a value
//
// Use errors.Is() / errors.As() to check error types:
//
//	var castErr *database.CastError
//	if errors.As(err, &castErr) {
//	    // castErr.Path, castErr.Value
//	}
package database

import (
	"context"
	"errors"
	"fmt"
)

// Standard errors for database operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation (e.g., duplicate email).
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")
)

// CastError reports a value that could not be cast to the type of the field
// it was supplied for, e.g. "abc" given as a record id.
type CastError struct {
	Path  string
	Value string
	Kind  string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cast to %s failed for value %q at path %q", e.Kind, e.Value, e.Path)
}

// DuplicateError reports a unique index violation on Field.
type DuplicateError struct {
	Field string
	Value string
	Err   error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%v: %s %q already exists", ErrDuplicate, e.Field, e.Value)
}

// Is makes errors.Is(err, ErrDuplicate) hold for every DuplicateError.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

func (e *DuplicateError) Unwrap() error {
	return e.Err
}

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
