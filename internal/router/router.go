package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hoahub-dev/hoahub/internal/domain"
	mw "github.com/hoahub-dev/hoahub/internal/middleware"
	"github.com/hoahub-dev/hoahub/internal/middleware/metrics"
	rl "github.com/hoahub-dev/hoahub/internal/middleware/ratelimiter"
	"github.com/hoahub-dev/hoahub/internal/setup"
)

// New creates and configures the chi router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints
// combined in that group.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// Auth routes. Email-sending endpoints get strict per-IP limits.
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(rl.New(1.0/10, 3, 1*time.Hour), mw.GetIP)) // 1 per 10s by IP, burst 3
			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
		})

		// OTP verification (stricter limits to prevent brute force)
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(rl.New(5.0/600.0, 5, 1*time.Hour), mw.GetIP)) // 5 attempts per 10 minutes by IP
			r.Post("/auth/verify_otp", h.VerifyOtp)
		})

		r.Post("/auth/logout", h.Logout)

		// Logged-in routes
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAuth(deps.Jwt))
			r.Use(mw.ActivityLog(deps.Storage))
			r.Use(mw.RateLimit(rl.New(100, 100, 1*time.Hour), mw.GetEmailFromContext)) // 100 RPS per user

			r.Post("/complaints", h.CreateComplaint)
			r.Get("/complaints", h.MyComplaints)
			r.Get("/complaints/{complaint}", h.GetComplaint)
			r.Delete("/complaints/{complaint}", h.DeleteComplaint)

			r.Post("/messages", h.SendMessage)
			r.Get("/messages", h.Inbox)
			r.Post("/messages/{message}/read", h.MarkMessageRead)

			r.Get("/directory", h.Directory)
			r.Put("/directory/visibility", h.SetDirectoryVisibility)
			r.Put("/account/tier", h.UpgradeTier)

			r.Post("/documents", h.RegisterDocument)
			r.Get("/documents", h.CommunityDocuments)

			// Peer verification for board candidacy
			r.Post("/board/verification", h.SubmitVerificationRequest)
			r.Get("/board/verification", h.ListVerificationRequests)
			r.Get("/board/verification/status", h.VerificationStatus)
			r.Post("/board/verification/{request}/approve", h.ApproveVerificationRequest)

			// Landlord-only tenant invites
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireTiers(domain.TierLandlord))
				r.Post("/invites", h.CreateInvite)
				r.Get("/invites", h.MyInvites)
				r.Delete("/invites/{invite}", h.RevokeInvite)
			})

			// Board-only routes
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRoles(domain.RoleBoard, domain.RoleAdmin))
				r.Get("/board/dashboard", h.Dashboard)
				r.Get("/board/complaints", h.CommunityComplaints)
				r.Put("/board/complaints/{complaint}/status", h.UpdateComplaintStatus)
				r.Post("/board/complaints/{complaint}/read", h.MarkComplaintRead)
				r.Get("/board/messages", h.CommunityMessages)
				r.Post("/board/messages/{message}/respond", h.RespondToMessage)
				r.Delete("/board/documents/{document}", h.DeleteDocument)
			})
		})
	})

	// Wildcard OPTIONS handler so preflight requests never 404
	r.MethodFunc("OPTIONS", "/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
