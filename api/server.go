/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/members/*         Roster management
  /api/shifts/*          Shift type catalog
  /api/schedule/*        Schedule grid, bulk reconcile, progress
  /api/attendance        Check-in recording
  /api/periods/window    Period window calculation
  /api/cash/*            Cash ledger
  /api/contributions     Monthly dues matrix
  /api/settings          Runtime configuration
  /api/health            Liveness probe

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/members", func(r chi.Router) {
			r.Get("/", h.ListMembers)
			r.Post("/", h.CreateMember)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShiftTypes)
			r.Post("/", h.CreateShiftType)
		})

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.GetSchedule)
			r.Post("/reconcile", h.ReconcileSchedule)
			r.Get("/progress", h.GetProgress)
		})

		r.Post("/attendance", h.RecordAttendance)

		r.Get("/periods/window", h.GetWindow)

		r.Route("/cash", func(r chi.Router) {
			r.Get("/", h.ListCashEntries)
			r.Post("/", h.CreateCashEntry)
		})

		r.Get("/contributions", h.GetContributions)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
		})

		r.Get("/health", h.Health)
	})

	return r
}
