package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aichat-labs/chat-backend/internal/middleware"
	"github.com/aichat-labs/chat-backend/internal/utils"
)

// mockValidator implements middleware.SessionValidator without a session
// manager behind it.
type mockValidator struct {
	userID string
	ok     bool
}

func (m mockValidator) Validate(token string) (string, bool) {
	return m.userID, m.ok
}

// callWithCookie wraps a simple 200-OK inner handler in the provided
// middleware, optionally setting one cookie on the request, and returns the
// recorded response.
func callWithCookie(t *testing.T, mw func(http.Handler) http.Handler, cookieName, cookieValue string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw(inner)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if cookieName != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestSessionMiddleware_MissingCookie verifies that a request with no
// session_id cookie receives a 401 response.
func TestSessionMiddleware_MissingCookie(t *testing.T) {
	mw := middleware.SessionMiddleware(mockValidator{ok: true, userID: "u1"})

	rec := callWithCookie(t, mw, "", "")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// TestSessionMiddleware_InvalidSession verifies that a cookie the validator
// rejects receives a 401 JSON response.
func TestSessionMiddleware_InvalidSession(t *testing.T) {
	mw := middleware.SessionMiddleware(mockValidator{ok: false})

	rec := callWithCookie(t, mw, "session_id", "stale-token")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Unauthorized") {
		t.Errorf("expected JSON error body, got: %s", rec.Body.String())
	}
}

// TestSessionMiddleware_ValidSession verifies the user id lands in the
// request context and the inner handler runs.
func TestSessionMiddleware_ValidSession(t *testing.T) {
	mw := middleware.SessionMiddleware(mockValidator{ok: true, userID: "user-42"})

	var gotUserID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "good-token"})
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != "user-42" {
		t.Errorf("expected user-42 in context, got %q", gotUserID)
	}
}

func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	mw := middleware.CORSMiddleware([]string{"http://localhost:5173"})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected origin echoed back, got %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected credentials allowed for allow-listed origin")
	}
}

func TestCORSMiddleware_DisallowedOrigin(t *testing.T) {
	mw := middleware.CORSMiddleware([]string{"http://localhost:5173"})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS headers for unknown origin, got %q", got)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	mw := middleware.CORSMiddleware([]string{"http://localhost:5173"})

	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
	if called {
		t.Error("preflight should not reach the inner handler")
	}
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	middleware.Recover(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Something went wrong!") {
		t.Errorf("expected generic error body, got: %s", rec.Body.String())
	}
}

func TestRateLimit_RejectsBeyondBurst(t *testing.T) {
	mw := middleware.RateLimit(1, 2)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := mw(inner)

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		last = rec.Code
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst exhausted, got %d", last)
	}

	// A different client IP has its own bucket.
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected fresh IP to pass, got %d", rec.Code)
	}
}
