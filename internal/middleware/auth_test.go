package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hoahub-dev/hoahub/internal/domain"
	jwt_internal "github.com/hoahub-dev/hoahub/internal/utils/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() domain.User {
	return domain.User{
		Id:          "user-1",
		Email:       "resident@example.com",
		Role:        domain.RoleResident,
		Tier:        domain.TierSolo,
		CommunityId: "maple-grove",
	}
}

func TestRequireAuth(t *testing.T) {
	jwtService := jwt_internal.New("secret", time.Hour)

	var gotUser *domain.User
	handler := RequireAuth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("token in cookie", func(t *testing.T) {
		gotUser = nil
		token, err := jwtService.NewToken(testUser())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, gotUser)
		assert.Equal(t, "user-1", gotUser.Id)
		assert.Equal(t, domain.RoleResident, gotUser.Role)
		assert.Equal(t, "maple-grove", gotUser.CommunityId)
	})

	t.Run("token in Authorization header", func(t *testing.T) {
		gotUser = nil
		token, err := jwtService.NewToken(testUser())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, gotUser)
		assert.Equal(t, "resident@example.com", gotUser.Email)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "not.a.token"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		token, err := jwt_internal.New("other_secret", time.Hour).NewToken(testUser())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRoles(domain.RoleBoard, domain.RoleAdmin)(next)

	serve := func(user *domain.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user != nil {
			req = req.WithContext(context.WithValue(req.Context(), UserClaimsKey, user))
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	t.Run("allowed role", func(t *testing.T) {
		rr := serve(&domain.User{Id: "user-1", Role: domain.RoleBoard})
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("denied role", func(t *testing.T) {
		rr := serve(&domain.User{Id: "user-1", Role: domain.RoleResident})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("no user in context", func(t *testing.T) {
		rr := serve(nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequireTiers(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireTiers(domain.TierLandlord)(next)

	serve := func(user *domain.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user != nil {
			req = req.WithContext(context.WithValue(req.Context(), UserClaimsKey, user))
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	t.Run("allowed tier", func(t *testing.T) {
		rr := serve(&domain.User{Id: "user-1", Tier: domain.TierLandlord})
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("denied tier", func(t *testing.T) {
		rr := serve(&domain.User{Id: "user-1", Tier: domain.TierSolo})
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "Upgrade your subscription")
	})
}

func TestGetUserFromContext(t *testing.T) {
	t.Run("no user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Nil(t, GetUserFromContext(req))
	})

	t.Run("user present", func(t *testing.T) {
		user := &domain.User{Id: "user-1"}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), UserClaimsKey, user))
		assert.Equal(t, user, GetUserFromContext(req))
	})
}
