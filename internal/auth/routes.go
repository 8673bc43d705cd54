package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the auth endpoints. The credential endpoints sit behind
// the rate limiter; /me and /logout resolve the session cookie themselves.
func SetupRoutes(h *Handler, limit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(limit)
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Get("/me", h.Me)
	r.Post("/logout", h.Logout)

	return r
}
