package handlers

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arpitk/portfolio-backend/internal/infra/auth"
	"github.com/arpitk/portfolio-backend/internal/infra/http/middleware"
)

type RouterDeps struct {
	Contact *ContactHandler
	Auth    *AuthHandler
	Admin   *AdminLeadHandler
	Health  *HealthHandler
	Gate    *auth.Gate

	CORSOrigins []string
}

// NewRouter assembles the full route tree. Admin lead routes sit behind the
// authorization gate; everything else is public.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", deps.Health.Handle)

		r.Post("/submit-contact", deps.Contact.SubmitContact)
		r.Post("/v1/request-cv", deps.Contact.RequestCV)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", deps.Auth.Login)
			r.Post("/login/legacy", deps.Auth.LegacyLogin)
			r.Post("/logout", deps.Auth.Logout)
			r.Get("/validate", deps.Auth.Validate)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(deps.Gate))

				r.Get("/me", deps.Auth.Me)

				r.Route("/leads", func(r chi.Router) {
					r.Get("/", deps.Admin.List)
					r.Get("/stats", deps.Admin.Statistics)
					r.Get("/search", deps.Admin.Search)
					r.Get("/filter", deps.Admin.FilterByDate)
					r.Get("/filtered", deps.Admin.Filtered)
					r.Get("/export", deps.Admin.Export)
					r.Patch("/bulk-status", deps.Admin.BulkUpdateStatus)
					r.Delete("/bulk-delete", deps.Admin.BulkDelete)

					r.Route("/{leadID}", func(r chi.Router) {
						r.Get("/", deps.Admin.Get)
						r.Delete("/", deps.Admin.Delete)
						r.Post("/flag", deps.Admin.Flag)
						r.Post("/unflag", deps.Admin.Unflag)
						r.Patch("/status", deps.Admin.UpdateStatus)
						r.Patch("/priority", deps.Admin.UpdatePriority)
						r.Patch("/quality-score", deps.Admin.UpdateQualityScore)
						r.Patch("/notes", deps.Admin.UpdateNotes)
						r.Patch("/tags", deps.Admin.UpdateTags)
					})
				})
			})
		})
	})

	return r
}
