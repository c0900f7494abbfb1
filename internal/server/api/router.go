package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lucasmateusli/equiptrack/internal/server/storage"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Equipment *EquipmentHandler
	Agenda    *AgendaHandler
	Logs      *LogsHandler
}

// NewRouter assembles the full route tree. Bulk import and the other
// administrative state changes sit behind AdminOnly; reserve and release
// are open to any signed-in profile.
func NewRouter(profiles storage.ProfileStore, h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CORSMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"equiptrack"}`))
	})

	// Public routes
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.Auth.SignUp)
		r.Post("/signin", h.Auth.SignIn)
		r.Post("/signout", h.Auth.SignOut)
		r.Post("/make-admin", h.Auth.MakeAdmin)
	})

	// Protected routes
	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware)

		r.Get("/auth/me", h.Auth.Me)
		r.Get("/stats", h.Equipment.Stats)

		r.Route("/equipments", func(r chi.Router) {
			r.Get("/", h.Equipment.List)
			r.Get("/{id}/label", h.Equipment.Label)
			r.Post("/{id}/reserve", h.Equipment.Reserve)
			r.Post("/{id}/release", h.Equipment.Release)

			// Admin-only: import and state changes past the reservation flow
			r.Group(func(r chi.Router) {
				r.Use(AdminOnly(profiles))
				r.Post("/import", h.Equipment.Import)
				r.Post("/{id}/use", h.Equipment.MarkUsed)
				r.Post("/{id}/reset", h.Equipment.Reset)
				r.Delete("/{id}", h.Equipment.Delete)
			})
		})

		r.Get("/technicians", h.Agenda.ListTechnicians)
		r.Get("/agenda", h.Agenda.List)

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminOnly(profiles))
			r.Get("/logs", h.Logs.List)
			r.Post("/agenda", h.Agenda.Create)
		})
	})

	return r
}
