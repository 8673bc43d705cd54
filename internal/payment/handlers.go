package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/aichat-labs/chat-backend/internal/auth"
	"github.com/aichat-labs/chat-backend/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Handler struct {
	db            *gorm.DB
	store         auth.CredentialStore
	webhookSecret string
}

func NewHandler(db *gorm.DB, store auth.CredentialStore, webhookSecret string) *Handler {
	return &Handler{db: db, store: store, webhookSecret: webhookSecret}
}

type checkoutInput struct {
	Plan string `json:"plan"`
}

type checkoutResponse struct {
	PaymentID string `json:"payment_id"`
	Plan      string `json:"plan"`
	Amount    int    `json:"amount"`
}

// Checkout records a pending payment for a known plan. The provider confirms
// it later through the webhook.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input checkoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, ok := plans[input.Plan]
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "Unknown plan")
		return
	}

	p := Payment{
		ID:     uuid.NewString(),
		UserID: userID,
		Plan:   plan.Name,
		Amount: plan.Amount,
		Status: StatusPending,
	}
	if err := h.db.WithContext(r.Context()).Create(&p).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, checkoutResponse{
		PaymentID: p.ID,
		Plan:      p.Plan,
		Amount:    p.Amount,
	})
}

type webhookEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	PaymentID string `json:"payment_id"`
}

// Webhook handles signed provider callbacks. On payment.succeeded it marks
// the payment complete and applies the plan to the user. Redelivered events
// are no-ops thanks to the unique provider event id.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondError(w, http.StatusRequestEntityTooLarge, "Payload too large or unreadable")
		return
	}
	defer r.Body.Close()

	if h.webhookSecret == "" {
		utils.RespondError(w, http.StatusInternalServerError, "Server misconfigured")
		return
	}
	if !verifySignature(r.Header.Get("Payment-Signature"), raw, h.webhookSecret) {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Bad JSON")
		return
	}
	if event.ID == "" || event.PaymentID == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing event fields")
		return
	}

	if event.Type != "payment.succeeded" {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Ignored"})
		return
	}

	var p Payment
	err = h.db.WithContext(r.Context()).First(&p, "id = ?", event.PaymentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(w, http.StatusNotFound, "Unknown payment")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	// Claim the pending payment. A redelivery or a concurrent delivery loses
	// the rows-affected race and stops here.
	res := h.db.WithContext(r.Context()).Model(&Payment{}).
		Where("id = ? AND status = ?", p.ID, StatusPending).
		Updates(map[string]any{
			"status":            StatusSucceeded,
			"provider_event_id": event.ID,
		})
	if res.Error != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Already processed"})
		return
	}

	plan, ok := plans[p.Plan]
	if !ok {
		log.Printf("[payment] payment %s references unknown plan %q", p.ID, p.Plan)
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if plan.Premium {
		if err := h.store.SetPremium(r.Context(), p.UserID, true); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Server error")
			return
		}
	}
	if plan.Credits > 0 {
		if err := h.store.AddCredits(r.Context(), p.UserID, plan.Credits); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Server error")
			return
		}
	}

	log.Printf("[payment] payment %s succeeded for user %s plan=%s", p.ID, p.UserID, p.Plan)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Processed"})
}

// verifySignature checks the webhook HMAC. Accepts either a bare hex digest
// or the "sha256=<hex>" form.
func verifySignature(sig string, body []byte, secret string) bool {
	provided := strings.TrimPrefix(strings.TrimSpace(sig), "sha256=")
	if provided == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(provided))
}
