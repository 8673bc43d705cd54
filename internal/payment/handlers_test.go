package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aichat-labs/chat-backend/internal/utils"
	"github.com/stretchr/testify/assert"
)

func signBody(body, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := `{"id":"evt_1"}`
	secret := "whsec_test"
	good := signBody(body, secret)

	assert.True(t, verifySignature(good, []byte(body), secret))
	assert.True(t, verifySignature("sha256="+good, []byte(body), secret))
	assert.True(t, verifySignature("  "+good+"  ", []byte(body), secret))

	assert.False(t, verifySignature("", []byte(body), secret))
	assert.False(t, verifySignature(good, []byte(body+"x"), secret))
	assert.False(t, verifySignature(signBody(body, "other"), []byte(body), secret))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	h := NewHandler(nil, nil, "whsec_test")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Payment-Signature", "deadbeef")
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid signature")
}

func TestWebhookRequiresConfiguredSecret(t *testing.T) {
	h := NewHandler(nil, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	h := NewHandler(nil, nil, "whsec_test")
	body := `{"id":"evt_1","type":"payment.failed","payment_id":"pay_1"}`

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Payment-Signature", signBody(body, "whsec_test"))
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ignored")
}

func TestWebhookRejectsMissingFields(t *testing.T) {
	h := NewHandler(nil, nil, "whsec_test")
	body := `{"type":"payment.succeeded"}`

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Payment-Signature", signBody(body, "whsec_test"))
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutRejectsUnknownPlan(t *testing.T) {
	h := NewHandler(nil, nil, "whsec_test")

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"plan":"gold"}`))
	ctx := context.WithValue(req.Context(), utils.ContextUserIDKey, "user-1")
	rec := httptest.NewRecorder()
	h.Checkout(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown plan")
}

func TestCheckoutRequiresUserContext(t *testing.T) {
	h := NewHandler(nil, nil, "whsec_test")

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"plan":"premium"}`))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
