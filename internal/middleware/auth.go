package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hoahub-dev/hoahub/internal/domain"
	"github.com/hoahub-dev/hoahub/internal/utils"
	jwt_internal "github.com/hoahub-dev/hoahub/internal/utils/jwt"
)

// Key to store the user claims in the request context
type key int

const UserClaimsKey key = 0

// extractToken pulls the access token from the accessToken cookie or,
// failing that, an Authorization: Bearer header.
func extractToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok && token != "" {
		return token, true
	}
	return "", false
}

// RequireAuth decodes the JWT and stores the user in the request context.
func RequireAuth(jwtService jwt_internal.JwtService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := extractToken(r)
			if !ok {
				http.Error(w, "Please sign-in", http.StatusUnauthorized)
				return
			}

			token, err := jwtService.DecodeToken(tokenStr)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "Invalid access token", http.StatusUnauthorized)
				return
			}

			user := &domain.User{
				Id:          stringClaim(claims, "uid"),
				Email:       stringClaim(claims, "email"),
				Role:        stringClaim(claims, "role"),
				Tier:        stringClaim(claims, "tier"),
				CommunityId: stringClaim(claims, "community_id"),
			}
			if user.Id == "" {
				http.Error(w, "Invalid access token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles allows only users whose role is in the list. Must run
// after RequireAuth.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r)
			if user == nil {
				http.Error(w, "Please sign-in", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Access denied", http.StatusForbidden)
		})
	}
}

// RequireTiers allows only users on one of the given subscription tiers.
func RequireTiers(tiers ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r)
			if user == nil {
				http.Error(w, "Please sign-in", http.StatusUnauthorized)
				return
			}
			for _, tier := range tiers {
				if user.Tier == tier {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Upgrade your subscription to use this feature", http.StatusForbidden)
		})
	}
}

// GetUserFromContext retrieves the authenticated user, or nil.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func stringClaim(claims jwt.MapClaims, name string) string {
	v, _ := claims[name].(string)
	return v
}
