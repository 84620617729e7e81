package service

import (
	"errors"
	"fmt"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrIncorrectPassword  = errors.New("your current password is wrong")
	ErrNotLoggedIn        = errors.New("you are not logged in")
	ErrUserNotFound       = errors.New("the user belonging to this token no longer exists")
	ErrPasswordChanged    = errors.New("user recently changed password")
)

// ===== Credential Errors =====
var (
	ErrPasswordMismatch  = errors.New("passwords are not the same")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong   = errors.New("password must be at most 72 bytes")
	ErrResetTokenInvalid = errors.New("token is invalid or has expired")
	ErrNoUserWithEmail   = errors.New("there is no user with that email address")
	ErrResetEmailFailed  = errors.New("there was an error sending the email")
)

// ===== Review Errors =====
var (
	ErrReviewNotFound = errors.New("review not found")
	ErrTourNotFound   = errors.New("tour not found")
)

// ===== Rating Errors =====

// RecomputeError reports that a review mutation committed but the rating
// summary of its tour could not be recomputed. The summary stays stale until
// the next successful recompute of that tour.
type RecomputeError struct {
	Op     ReviewOp
	TourID string
	Err    error
}

func (e *RecomputeError) Error() string {
	return fmt.Sprintf("recompute ratings of %s after %s: %v", e.TourID, e.Op, e.Err)
}

func (e *RecomputeError) Unwrap() error {
	return e.Err
}
