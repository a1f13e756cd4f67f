package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// NewRouter mounts the API under /api/v1. Route shapes are part of the wire
// contract with the client; change them together.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/logout", h.logout)
			r.Post("/security-questions", h.setSecurityQuestions)
			r.Post("/recover", h.recoverPassword)
		})

		r.Get("/users/{username}", h.getUser)
		r.Get("/sessions/{id}/validate", h.validateSession)

		r.Route("/license", func(r chi.Router) {
			r.Post("/validate", h.validateLicense)
			r.Post("/issue", h.issueLicense)
			r.Post("/revoke", h.revokeLicense)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	return r
}
