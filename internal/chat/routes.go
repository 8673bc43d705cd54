package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the chat endpoints. Everything here is behind the
// session guard.
func SetupRoutes(h *Handler, guard func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(guard)

	r.Post("/", h.Send)
	r.Get("/conversations", h.ListConversations)
	r.Get("/conversations/{conversation_id}", h.GetConversation)

	return r
}
