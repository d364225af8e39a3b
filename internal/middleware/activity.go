package middleware

import (
	"net/http"

	"github.com/hoahub-dev/hoahub/internal/domain"
	"github.com/hoahub-dev/hoahub/internal/logger"
	"github.com/hoahub-dev/hoahub/internal/utils"
)

type ActivityStorage interface {
	SaveActivity(a domain.ActivityLog) error
}

// ActivityLog records every authenticated request in the background so
// logging latency never shows up in response times. Must run after
// RequireAuth.
func ActivityLog(storage ActivityStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := GetUserFromContext(r); user != nil {
				ip, _ := utils.GetIP(r)
				record := domain.ActivityLog{
					UserId:      user.Id,
					Action:      r.Method + " " + r.URL.Path,
					Endpoint:    r.URL.Path,
					IPAddress:   ip,
					UserAgent:   r.UserAgent(),
					CommunityId: user.CommunityId,
				}
				go func() {
					if err := storage.SaveActivity(record); err != nil {
						logger.Log.Error("failed to record activity", "error", err)
					}
				}()
			}

			next.ServeHTTP(w, r)
		})
	}
}
