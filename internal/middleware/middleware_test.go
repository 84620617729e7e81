package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ============================================================================
// Chain Tests
// ============================================================================

func TestChain_NoMiddlewares_ReturnsHandler(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("handler"))
	})

	rr := httptest.NewRecorder()
	Chain(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rr.Body.String() != "handler" {
		t.Errorf("expected body 'handler', got %q", rr.Body.String())
	}
}

func TestChain_MultipleMiddlewares_CorrectOrder(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("H"))
	})
	wrap := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(name + "<"))
				next.ServeHTTP(w, r)
				_, _ = w.Write([]byte(">" + name))
			})
		}
	}

	rr := httptest.NewRecorder()
	Chain(handler, wrap("1"), wrap("2"), wrap("3")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	if want := "1<2<3<H>3>2>1"; rr.Body.String() != want {
		t.Errorf("expected %q, got %q", want, rr.Body.String())
	}
}

// ============================================================================
// RequestID Tests
// ============================================================================

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	t.Parallel()

	next := &captureHandler{}
	rr := httptest.NewRecorder()
	RequestID(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	id := GetRequestID(next.ctx)
	if len(id) != 36 {
		t.Errorf("expected a UUID request id, got %q", id)
	}
	if rr.Header().Get("X-Request-ID") != id {
		t.Errorf("expected response header %q, got %q", id, rr.Header().Get("X-Request-ID"))
	}
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	next := &captureHandler{}
	RequestID(next).ServeHTTP(httptest.NewRecorder(), req)

	if got := GetRequestID(next.ctx); got != "abc-123" {
		t.Errorf("expected incoming id to be kept, got %q", got)
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	t.Parallel()
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}
}

// ============================================================================
// Logger Tests
// ============================================================================

// Not parallel: swaps the default slog logger.
func TestLogger_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/reviews/r1", nil))

	out := buf.String()
	if !strings.Contains(out, `"status":418`) {
		t.Errorf("expected status in log line, got %s", out)
	}
	if !strings.Contains(out, `"path":"/api/v1/reviews/r1"`) {
		t.Errorf("expected path in log line, got %s", out)
	}
}

// ============================================================================
// Recovery Tests
// ============================================================================

func TestRecovery_PanicBecomesErrorResponse(t *testing.T) {
	t.Parallel()

	errs := &recordingResponder{}
	handler := Recovery(errs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if errs.count() != 1 {
		t.Fatalf("expected one error response, got %d", errs.count())
	}
	if !strings.Contains(errs.errs[0].Error(), "boom") {
		t.Errorf("expected panic value in error, got %v", errs.errs[0])
	}
}

func TestRecovery_NoPanic_PassesThrough(t *testing.T) {
	t.Parallel()

	errs := &recordingResponder{}
	next := &captureHandler{}
	rr := httptest.NewRecorder()
	Recovery(errs)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if !next.called || rr.Code != http.StatusOK || errs.count() != 0 {
		t.Errorf("expected untouched pass-through, got called=%v code=%d errs=%d", next.called, rr.Code, errs.count())
	}
}

func TestRecovery_AbortHandler_Repanics(t *testing.T) {
	t.Parallel()

	handler := Recovery(&recordingResponder{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

// ============================================================================
// BodyLimit Tests
// ============================================================================

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"under limit", strings.Repeat("a", 10), false},
		{"at limit", strings.Repeat("a", 16), false},
		{"over limit", strings.Repeat("a", 17), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var readErr error
			handler := BodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, readErr = io.ReadAll(r.Body)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/reviews", strings.NewReader(tt.body)))

			var maxErr *http.MaxBytesError
			if got := errors.As(readErr, &maxErr); got != tt.wantErr {
				t.Errorf("expected MaxBytesError=%v, got err %v", tt.wantErr, readErr)
			}
		})
	}
}
