package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/pulsepost-dev/pulsepost/internal/middleware"
	"github.com/pulsepost-dev/pulsepost/internal/middleware/metrics"
	rl "github.com/pulsepost-dev/pulsepost/internal/middleware/ratelimiter"
	"github.com/pulsepost-dev/pulsepost/internal/setup"
)

// New configures the chi router with all routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints
// combined in that group.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Credential endpoints get tight per-IP limits on top of the
		// account lockout in the auth service.
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(rl.New(1, 3, 1*time.Hour), mw.GetIP)) // 1/s, burst 3, by IP
			r.Use(mw.GlobalRateLimit(rl.New(100, 100, 1*time.Hour)))
			r.Post("/users/register", h.Register)
			r.Post("/users/login", h.Login)
		})

		// Public reads
		r.Get("/posts", h.ListPosts)
		r.Get("/posts/{post}", h.GetPost)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Use(mw.RateLimit(rl.New(10, 20, 1*time.Hour), mw.GetUserIdentity)) // 10/s per user

			r.Get("/users/profile", h.Profile)

			r.Post("/posts", h.CreatePost)
			r.Delete("/posts/{post}", h.DeletePost)
			r.Patch("/posts/{post}/like", h.LikePost)
			r.Patch("/posts/{post}/dislike", h.DislikePost)

			r.Post("/posts/{post}/comments", h.CreateComment)
			r.Delete("/posts/{post}/comments/{comment}", h.DeleteComment)
			r.Patch("/posts/{post}/comments/{comment}/like", h.LikeComment)
			r.Patch("/posts/{post}/comments/{comment}/dislike", h.DislikeComment)
		})
	})

	// Avoid 404s for preflight requests outside registered routes
	r.Options("/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
