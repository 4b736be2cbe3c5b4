package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopstack/commerce-core/internal/auth"
)

func newTestMiddleware(t *testing.T) (*AuthMiddleware, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthMiddleware(tokens, nil), tokens
}

func passthrough(t *testing.T, captured *Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := IdentityFrom(r.Context()); ok {
			*captured = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	var id Identity
	handler := mw.Handler(passthrough(t, &id))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareBadHeaderFormat(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	handler := mw.Handler(passthrough(t, &Identity{}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	handler := mw.Handler(passthrough(t, &Identity{}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	expired := auth.NewTokenManager("test-secret", -time.Minute)
	token, err := expired.Issue("u1", "a@x.com", "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	mw, _ := newTestMiddleware(t)
	handler := mw.Handler(passthrough(t, &Identity{}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareAttachesIdentity(t *testing.T) {
	mw, tokens := newTestMiddleware(t)
	token, err := tokens.Issue("u1", "a@x.com", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var id Identity
	handler := mw.Handler(passthrough(t, &id))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if id.UserID != "u1" || id.Email != "a@x.com" || id.Role != "admin" {
		t.Fatalf("identity = %+v", id)
	}
}
