package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aichat-labs/chat-backend/internal/utils"
)

type Handler struct {
	service       *Service
	secureCookies bool
}

func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{service: service, secureCookies: secureCookies}
}

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	User PublicUser `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input credentialsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.service.Register(r.Context(), input.Email, input.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	http.SetCookie(w, Cookie(token, h.secureCookies))
	utils.RespondJSON(w, http.StatusCreated, userResponse{User: user})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input credentialsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.service.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	http.SetCookie(w, Cookie(token, h.secureCookies))
	utils.RespondJSON(w, http.StatusOK, userResponse{User: user})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		writeAuthError(w, ErrUnauthenticated)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), cookie.Value)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, userResponse{User: user})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.service.Logout(cookie.Value); err != nil {
			writeAuthError(w, err)
			return
		}
	}

	http.SetCookie(w, ClearedCookie())
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// writeAuthError maps the auth error taxonomy onto status codes. Anything
// unrecognized becomes the generic 500.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrInvalidCredentials):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnauthenticated):
		utils.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrUserNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSessionDestroy):
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
	}
}
