// Package handler provides HTTP request handlers for the Tourbook API.
//
// Each handler struct encapsulates the dependencies needed to serve one
// feature area (accounts, reviews) and registers its own routes on a
// net/http ServeMux.
//
// # Response Format
//
// Successful responses use the helpers in response.go:
//
//   - WriteData: {"status": "success", "data": ...}
//   - WriteCollection: adds "results" with the number of items
//   - WriteNoContent: 204 for deletions
//
// # Errors
//
// Every failure is written by ErrorResponder.Respond, exactly once per
// request. TranslateError first normalizes the error into a *model.AppError:
// storage cast and duplicate errors, validation errors, token errors and
// service sentinels each map to a fixed kind, message and status, and
// anything else becomes a non-operational internal error.
//
// ErrorResponder then formats it. API requests (path prefix /api) get JSON;
// all other requests get an ErrorPage handed to a PageRenderer. In verbose
// mode the raw error and its stack trace are included. Otherwise internal
// errors are replaced by a generic message and only logged.
//
// # Example Usage
//
//	errs := handler.NewErrorResponder(handler.ErrorResponderConfig{Verbose: cfg.IsDevelopment()})
//	protect := middleware.Protect(authService, errs)
//	handler.NewReviewHandler(reviewService, errs).RegisterRoutes(mux, protect)
package handler
