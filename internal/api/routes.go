package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Routes(m *Middleware, corsOrigins []string, rateLimitRPM int) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(m.RequestID)
	r.Use(m.RequestLogger)
	r.Use(m.Recoverer)
	r.Use(m.SecurityHeaders)
	r.Use(m.Compress)
	r.Use(middleware.Heartbeat("/ping"))

	// CORS and rate limiting - configured from main
	r.Use(m.CORS(corsOrigins))
	r.Use(m.RateLimit(rateLimitRPM))

	// Health endpoints
	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)

	// v1 API routes
	r.Route("/v1", func(r chi.Router) {
		// Accounts & platforms
		r.With(m.Timeout(15*time.Second)).Group(func(r chi.Router) {
			r.Get("/accounts", h.ListAccounts)
			r.Get("/platforms", h.ListPlatforms)

			// Batches
			r.Route("/batches", func(r chi.Router) {
				r.Post("/", h.CreateBatch)
				r.Get("/", h.ListBatches)
				r.Get("/{id}", h.GetBatch)
				r.Patch("/{id}", h.UpdateBatch)
				r.Delete("/{id}", h.DeleteBatch)
				r.Post("/{id}/media", h.AddBatchMedia)
				r.Delete("/{id}/media/{mediaId}", h.RemoveBatchMedia)
				r.Get("/{id}/usage", h.GetBatchUsage)
			})

			// Posts
			r.Route("/posts", func(r chi.Router) {
				r.Post("/", h.CreatePost)
				r.Get("/", h.ListPosts)
				r.Get("/{id}", h.GetPost)
				r.Patch("/{id}", h.UpdatePost)
				r.Delete("/{id}", h.DeletePost)
			})

			// Advisory conflict check for an unsaved candidate
			r.Post("/conflicts/check", h.CheckConflicts)

			// Runtime configuration
			r.Get("/config", h.GetConfig)
			r.Patch("/config/{key}", h.UpdateConfig)

			// Full-library export
			r.Get("/export", h.Export)
		})

		// Media - import gets a longer timeout for large uploads
		r.Route("/media", func(r chi.Router) {
			r.With(m.Timeout(2 * time.Minute)).Post("/import", h.ImportMedia)
			r.With(m.Timeout(15*time.Second)).Group(func(r chi.Router) {
				r.Get("/", h.ListMedia)
				r.Get("/{id}", h.GetMedia)
				r.Get("/{id}/usage", h.GetMediaUsage)
				r.Delete("/{id}", h.DeleteMedia)
			})
		})
	})

	return r
}
