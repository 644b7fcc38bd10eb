package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/http/middleware"
	"github.com/casaphilia/rentals-api/pkg/auth"
)

const testSecret = "test-secret"

func protectedEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.Identity(r)
		if identity.UserID == "" {
			t.Error("identity missing inside protected handler")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireJWT(t *testing.T) {
	handler := middleware.RequireJWT(testSecret)(protectedEcho(t))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := auth.NewAccessToken("u1", "u@example.com", string(domain.RoleUser), "other-secret", time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := auth.NewAccessToken("u1", "u@example.com", string(domain.RoleUser), testSecret, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	chain := middleware.RequireJWT(testSecret)(
		middleware.RequireRole(domain.RoleSuperAdmin)(protectedEcho(t)))

	request := func(role domain.Role) *httptest.ResponseRecorder {
		token, err := auth.NewAccessToken("u1", "u@example.com", string(role), testSecret, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		return rec
	}

	if rec := request(domain.RoleUser); rec.Code != http.StatusForbidden {
		t.Errorf("USER: status = %d, want 403", rec.Code)
	}
	if rec := request(domain.RolePropertyManager); rec.Code != http.StatusForbidden {
		t.Errorf("PROPERTY_MANAGER: status = %d, want 403", rec.Code)
	}
	if rec := request(domain.RoleSuperAdmin); rec.Code != http.StatusOK {
		t.Errorf("SUPER_ADMIN: status = %d, want 200", rec.Code)
	}
}
