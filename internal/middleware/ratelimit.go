package middleware

import (
	"net/http"

	internal_errors "github.com/hoahub-dev/hoahub/internal/errors"
	"github.com/hoahub-dev/hoahub/internal/middleware/ratelimiter"
	"github.com/hoahub-dev/hoahub/internal/utils"
)

// RateLimit limits requests per identity (IP, email, user).
func RateLimit(kl *ratelimiter.KeyedLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !kl.Allow(identity) {
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GetIP(r *http.Request) (string, error) {
	return utils.GetIP(r)
}

// GetEmailFromContext keys the limit by the authenticated user's email.
// Must run after RequireAuth.
func GetEmailFromContext(r *http.Request) (string, error) {
	user := GetUserFromContext(r)
	if user == nil {
		return "", &internal_errors.ErrorWithStatusCode{Message: "Please sign-in", StatusCode: http.StatusUnauthorized}
	}
	return user.Email, nil
}
