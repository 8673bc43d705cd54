package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aichat-labs/chat-backend/internal/utils"
	"github.com/stretchr/testify/assert"
)

// fakeCompleter returns a canned reply and records the prompt it saw.
type fakeCompleter struct {
	reply  string
	err    error
	prompt []ChatMessage
}

func (f *fakeCompleter) Complete(_ context.Context, messages []ChatMessage) (string, error) {
	f.prompt = messages
	return f.reply, f.err
}

func TestConversationTitle(t *testing.T) {
	assert.Equal(t, "hello", conversationTitle("hello"))

	long := strings.Repeat("a", titleLimit+20)
	title := conversationTitle(long)
	assert.Equal(t, titleLimit+1, len([]rune(title)))
	assert.True(t, strings.HasSuffix(title, "…"))

	// Multibyte input is cut on rune boundaries, not bytes.
	wide := strings.Repeat("ü", titleLimit+5)
	assert.Equal(t, strings.Repeat("ü", titleLimit)+"…", conversationTitle(wide))
}

func TestSendRequiresUserContext(t *testing.T) {
	h := NewHandler(nil, nil, &fakeCompleter{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	h := NewHandler(nil, nil, &fakeCompleter{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":""}`))
	ctx := context.WithValue(req.Context(), utils.ContextUserIDKey, "user-1")
	rec := httptest.NewRecorder()
	h.Send(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Message is required")
}

func TestSendRejectsBadJSON(t *testing.T) {
	h := NewHandler(nil, nil, &fakeCompleter{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	ctx := context.WithValue(req.Context(), utils.ContextUserIDKey, "user-1")
	rec := httptest.NewRecorder()
	h.Send(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
