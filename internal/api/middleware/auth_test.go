package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sneaker-shop/internal/auth"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-at-least-32-chars-long", 15*time.Minute)
}

func okHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestExtractToken(t *testing.T) {
	t.Run("from cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
		assert.Equal(t, "cookie-token", ExtractToken(r))
	})

	t.Run("from bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer header-token")
		assert.Equal(t, "header-token", ExtractToken(r))
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
		r.Header.Set("Authorization", "Bearer header-token")
		assert.Equal(t, "cookie-token", ExtractToken(r))
	})

	t.Run("missing", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, ExtractToken(r))
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	token, _, err := svc.GenerateToken("staff-1", "owner@example.com", auth.RoleAdmin)
	require.NoError(t, err)

	var called bool
	handler := AuthMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetStaffFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "staff-1", claims.StaffID)
		called = true
	}))

	r := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.True(t, called)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	var called bool
	handler := AuthMiddleware(newTestJWTService())(okHandler(t, &called))

	r := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	var called bool
	handler := AuthMiddleware(newTestJWTService())(okHandler(t, &called))

	r := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireStaff(t *testing.T) {
	svc := newTestJWTService()

	run := func(role string) *httptest.ResponseRecorder {
		token, _, err := svc.GenerateToken("staff-1", "someone@example.com", role)
		require.NoError(t, err)

		var called bool
		handler := AuthMiddleware(svc)(RequireStaff()(okHandler(t, &called)))
		r := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, run(auth.RoleAdmin).Code)
	assert.Equal(t, http.StatusOK, run(auth.RoleStaff).Code)
	assert.Equal(t, http.StatusForbidden, run("customer").Code)
}

func TestRequireStaff_NoClaims(t *testing.T) {
	var called bool
	handler := RequireStaff()(okHandler(t, &called))

	r := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
