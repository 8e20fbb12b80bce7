package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// adminMap is a stub AdminChecker backed by a map.
type adminMap map[string]bool

func (m adminMap) IsAdmin(_ context.Context, userID string) (bool, error) {
	admin, ok := m[userID]
	if !ok {
		return false, errors.New("no such user")
	}
	return admin, nil
}

func okHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if wantUserID != "" {
			if !ok || userID != wantUserID {
				t.Errorf("context userID = %q (ok=%v), want %q", userID, ok, wantUserID)
			}
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"invalid token", "Bearer garbage", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireAuth(ts)(okHandler(t, "user-1"))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.GenerateWithDuration("user-1", -1)
	if err != nil {
		t.Fatalf("GenerateWithDuration: %v", err)
	}

	handler := RequireAuth(ts)(okHandler(t, ""))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestOptionalAuth(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Generate("user-2")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	t.Run("with token sets identity", func(t *testing.T) {
		handler := OptionalAuth(ts)(okHandler(t, "user-2"))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("without token still passes", func(t *testing.T) {
		handler := OptionalAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserIDFromContext(r.Context()); ok {
				t.Error("anonymous request should have no userID in context")
			}
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("invalid token stays anonymous", func(t *testing.T) {
		handler := OptionalAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserIDFromContext(r.Context()); ok {
				t.Error("invalid token should not set an identity")
			}
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	ts := newTestTokenService(t)
	admins := adminMap{"admin-1": true, "user-1": false}

	makeRequest := func(t *testing.T, userID string) *httptest.ResponseRecorder {
		t.Helper()
		token, err := ts.Generate(userID)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		chain := RequireAuth(ts)(RequireAdmin(admins)(okHandler(t, "")))
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		return rec
	}

	if rec := makeRequest(t, "admin-1"); rec.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", rec.Code)
	}
	if rec := makeRequest(t, "user-1"); rec.Code != http.StatusForbidden {
		t.Errorf("non-admin: status = %d, want 403", rec.Code)
	}
	if rec := makeRequest(t, "ghost"); rec.Code != http.StatusInternalServerError {
		t.Errorf("lookup failure: status = %d, want 500", rec.Code)
	}
}
