package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/forgo/tourbook/api/internal/database"
	"github.com/forgo/tourbook/api/internal/model"
	"github.com/forgo/tourbook/api/internal/service"
	"github.com/forgo/tourbook/api/pkg/jwt"
)

// TranslateError converts any failure into the normalized *model.AppError
// every response is built from. It never modifies err; the result keeps err
// as its Cause. A nil err yields nil.
func TranslateError(err error) *model.AppError {
	if err == nil {
		return nil
	}

	// Already normalized by a handler
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		copied := *appErr
		return &copied
	}

	// ===== Storage Errors → 400 =====
	var castErr *database.CastError
	if errors.As(err, &castErr) {
		return model.NewInvalidInputError(fmt.Sprintf("Invalid %s: %s.", castErr.Path, castErr.Value), err)
	}

	var dupErr *database.DuplicateError
	if errors.As(err, &dupErr) {
		return model.NewDuplicateValueError(dupErr.Field, dupErr.Value, err)
	}
	if errors.Is(err, database.ErrDuplicate) {
		return &model.AppError{
			Kind:        model.KindDuplicateValue,
			Message:     "Duplicate field value. Please use another value.",
			StatusCode:  http.StatusBadRequest,
			Operational: true,
			Cause:       err,
		}
	}

	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		msg := "Invalid input data."
		if messages := validationErr.Messages(); len(messages) > 0 {
			msg = fmt.Sprintf("Invalid input data. %s.", strings.Join(messages, ". "))
		}
		return model.NewInvalidInputError(msg, err)
	}

	// ===== Token Errors → 401 =====
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.NewAuthExpiredError(err)
	case errors.Is(err, jwt.ErrInvalidToken):
		return model.NewAuthInvalidError(err)
	}

	// ===== Service Errors =====
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError("Incorrect email or password.", err)
	case errors.Is(err, service.ErrIncorrectPassword):
		return model.NewUnauthorizedError("Your current password is wrong.", err)
	case errors.Is(err, service.ErrNotLoggedIn):
		return model.NewUnauthorizedError("You are not logged in! Please log in to get access.", err)
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewUnauthorizedError("The user belonging to this token no longer exists.", err)
	case errors.Is(err, service.ErrPasswordChanged):
		return model.NewUnauthorizedError("User recently changed password! Please log in again.", err)

	case errors.Is(err, service.ErrPasswordMismatch):
		return model.NewValidationFailedError("Passwords are not the same!", err)
	case errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationFailedError(sentence(err), err)

	case errors.Is(err, service.ErrResetTokenInvalid):
		return model.NewTokenInvalidOrExpiredError(err)

	case errors.Is(err, service.ErrReviewNotFound):
		return model.NewNotFoundError("review", err)
	case errors.Is(err, service.ErrTourNotFound):
		return model.NewNotFoundError("tour", err)
	case errors.Is(err, service.ErrNoUserWithEmail):
		return &model.AppError{
			Kind:        model.KindNotFound,
			Message:     "There is no user with that email address.",
			StatusCode:  http.StatusNotFound,
			Operational: true,
			Cause:       err,
		}

	case errors.Is(err, service.ErrResetEmailFailed):
		return &model.AppError{
			Kind:        model.KindInternal,
			Message:     "There was an error sending the email. Try again later!",
			StatusCode:  http.StatusInternalServerError,
			Operational: true,
			Cause:       err,
		}
	}

	// Everything else, including *service.RecomputeError, is a bug or an
	// infrastructure failure.
	return model.NewInternalError(err)
}

// sentence capitalizes a sentinel's text and ends it with a period.
func sentence(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
