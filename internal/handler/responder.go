package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forgo/tourbook/api/internal/model"
	"github.com/samber/oops"
)

const (
	genericAPIMessage  = "Whoops, something went wrong"
	genericPageMessage = "Please try again later."
	errorPageTitle     = "Something went wrong!"
)

// ErrorBody is the JSON body of an API error response
type ErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// ErrorPage is the model handed to a PageRenderer. Error and Stack are
// only set in verbose mode.
type ErrorPage struct {
	Title string
	Msg   string
	Error string
	Stack string
}

// ErrorResponse is a rendered error, ready to be written. Exactly one of
// Body and Page is set.
type ErrorResponse struct {
	StatusCode int
	Body       *ErrorBody
	Page       *ErrorPage
}

// PageRenderer writes an error page for non-API requests
type PageRenderer interface {
	RenderError(w http.ResponseWriter, status int, page ErrorPage)
}

// PageRendererFunc adapts a function to PageRenderer
type PageRendererFunc func(w http.ResponseWriter, status int, page ErrorPage)

func (f PageRendererFunc) RenderError(w http.ResponseWriter, status int, page ErrorPage) {
	f(w, status, page)
}

// TextPageRenderer writes the page as plain text
var TextPageRenderer = PageRendererFunc(func(w http.ResponseWriter, status int, page ErrorPage) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "%s\n\n%s\n", page.Title, page.Msg)
	if page.Error != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", page.Error)
	}
	if page.Stack != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", page.Stack)
	}
})

// ErrorResponder turns errors into HTTP responses
type ErrorResponder struct {
	verbose bool
	logger  *slog.Logger
	pages   PageRenderer
}

// ErrorResponderConfig holds configuration for the error responder
type ErrorResponderConfig struct {
	// Verbose exposes raw errors and stack traces. Development only.
	Verbose bool
	Logger  *slog.Logger
	Pages   PageRenderer // Default: TextPageRenderer
}

// NewErrorResponder creates a new error responder
func NewErrorResponder(cfg ErrorResponderConfig) *ErrorResponder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pages := cfg.Pages
	if pages == nil {
		pages = TextPageRenderer
	}
	return &ErrorResponder{
		verbose: cfg.Verbose,
		logger:  logger,
		pages:   pages,
	}
}

// Render builds the response for err without writing anything. Outside
// verbose mode a non-operational error never leaks its message.
func (e *ErrorResponder) Render(err error, isAPI bool) ErrorResponse {
	if err == nil {
		err = model.NewInternalError(nil)
	}
	appErr := TranslateError(err)

	status := appErr.StatusCode
	message := appErr.Message
	masked := !e.verbose && !appErr.Operational
	if masked {
		status = http.StatusInternalServerError
		message = genericAPIMessage
		if !isAPI {
			message = genericPageMessage
		}
	}

	var rawError, stack string
	if e.verbose {
		rawError = err.Error()
		stack = stackOf(err)
	}

	if !isAPI {
		return ErrorResponse{
			StatusCode: status,
			Page: &ErrorPage{
				Title: errorPageTitle,
				Msg:   message,
				Error: rawError,
				Stack: stack,
			},
		}
	}

	body := &ErrorBody{
		Status:  appErr.Status(),
		Message: message,
		Error:   rawError,
		Stack:   stack,
	}
	if masked {
		body.Status = "error"
	}
	return ErrorResponse{StatusCode: status, Body: body}
}

// Respond writes the response for err. Internal failures are logged.
func (e *ErrorResponder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = model.NewInternalError(nil)
	}
	isAPI := IsAPIRequest(r)
	resp := e.Render(err, isAPI)

	if resp.StatusCode >= http.StatusInternalServerError {
		attrs := []any{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		}
		if oopsErr, ok := oops.AsOops(err); ok {
			attrs = append(attrs, slog.Any("code", oopsErr.Code()), slog.Any("context", oopsErr.Context()))
		}
		e.logger.Error("request failed", attrs...)
	}

	if resp.Page != nil {
		e.pages.RenderError(w, resp.StatusCode, *resp.Page)
		return
	}
	WriteJSON(w, resp.StatusCode, resp.Body)
}

// NotFound responds to requests no route matches
func (e *ErrorResponder) NotFound(w http.ResponseWriter, r *http.Request) {
	e.Respond(w, r, model.NewRouteNotFoundError(r.URL.Path))
}

// IsAPIRequest reports whether r targets the JSON API rather than a page
func IsAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api")
}

func stackOf(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Stacktrace()
	}
	return ""
}
