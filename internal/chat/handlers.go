package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aichat-labs/chat-backend/internal/auth"
	"github.com/aichat-labs/chat-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const titleLimit = 60

type Handler struct {
	db        *gorm.DB
	store     auth.CredentialStore
	completer Completer
}

func NewHandler(db *gorm.DB, store auth.CredentialStore, completer Completer) *Handler {
	return &Handler{db: db, store: store, completer: completer}
}

type sendInput struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type sendResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
	Credits        int    `json:"credits"`
}

// Send spends one credit (premium users exempt), forwards the conversation to
// the upstream model, and persists both turns.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input sendInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "Message is required")
		return
	}

	user, err := h.store.FindByID(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	var conv *Conversation
	if input.ConversationID != "" {
		var existing Conversation
		err := h.db.WithContext(r.Context()).
			First(&existing, "id = ? AND user_id = ?", input.ConversationID, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Server error")
			return
		}
		conv = &existing
	}

	credits := user.Credits
	if !user.IsPremium {
		credits, err = h.store.SpendCredit(r.Context(), userID)
		if errors.Is(err, auth.ErrNoCredits) {
			utils.RespondError(w, http.StatusPaymentRequired, "Out of credits")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Server error")
			return
		}
	}

	if conv == nil {
		conv = &Conversation{
			ID:     uuid.NewString(),
			UserID: userID,
			Title:  conversationTitle(input.Message),
		}
		if err := h.db.WithContext(r.Context()).Create(conv).Error; err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Server error")
			return
		}
	}

	var history []Message
	if err := h.db.WithContext(r.Context()).
		Where("conversation_id = ?", conv.ID).
		Order("created_at asc").
		Find(&history).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	prompt := make([]ChatMessage, 0, len(history)+1)
	for _, m := range history {
		prompt = append(prompt, ChatMessage{Role: m.Role, Content: m.Content})
	}
	prompt = append(prompt, ChatMessage{Role: "user", Content: input.Message})

	reply, err := h.completer.Complete(r.Context(), prompt)
	if err != nil {
		utils.RespondError(w, http.StatusBadGateway, "Chat service unavailable")
		return
	}

	turns := []Message{
		{ID: uuid.NewString(), ConversationID: conv.ID, Role: "user", Content: input.Message},
		{ID: uuid.NewString(), ConversationID: conv.ID, Role: "assistant", Content: reply},
	}
	if err := h.db.WithContext(r.Context()).Create(&turns).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	h.db.WithContext(r.Context()).Model(conv).Update("updated_at", time.Now())

	utils.RespondJSON(w, http.StatusOK, sendResponse{
		ConversationID: conv.ID,
		Reply:          reply,
		Credits:        credits,
	})
}

// conversationTitle derives a list title from the first message.
func conversationTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= titleLimit {
		return message
	}
	return string(runes[:titleLimit]) + "…"
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var convs []Conversation
	if err := h.db.WithContext(r.Context()).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&convs).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, convs)
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "conversation_id")
	var conv Conversation
	err := h.db.WithContext(r.Context()).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		First(&conv, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, conv)
}
