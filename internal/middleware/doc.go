// Package middleware provides HTTP middleware for the Tourbook API.
//
// # Available Middleware
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger: one structured log line per request
//   - Recovery: turns panics into internal error responses
//   - BodyLimit: caps request body size
//   - Metrics: Prometheus request counters and latency histograms
//   - Protect / RestrictTo: authentication and role checks
//
// Failures are never written here directly. Every middleware that rejects
// a request hands the error to an ErrorResponder so the response format is
// decided in one place.
//
// # Authentication
//
//	protect := middleware.Protect(authService, errs)
//	mux.Handle("POST /api/v1/tours/{tourId}/reviews",
//	    middleware.Chain(h, protect, middleware.RestrictTo(errs, model.UserRoleUser)))
//
// After Protect, handlers read the caller with GetUser or GetUserID.
package middleware
