package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the payment endpoints. Checkout requires a session; the
// webhook authenticates with its signature instead.
func SetupRoutes(h *Handler, guard func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Post("/checkout", h.Checkout)
	})

	r.Post("/webhook", h.Webhook)

	return r
}
