package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "session_id"

	// SessionTTL is the fixed session lifetime from issuance.
	SessionTTL = 24 * time.Hour
)

type sessionEntry struct {
	userID    string
	expiresAt time.Time
}

// SessionManager owns the server-side sessions. Sessions live in process
// memory for the lifetime of the process; the cookie value is the opaque id
// signed with the session secret so a forged cookie never reaches the map.
// A user may hold multiple concurrent sessions, one per device.
type SessionManager struct {
	mu       sync.Mutex
	secret   []byte
	sessions map[string]sessionEntry
	now      func() time.Time
}

func NewSessionManager(secret string) *SessionManager {
	return &SessionManager{
		secret:   []byte(secret),
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

// Issue creates a new session bound to userID and returns the signed cookie
// token. Each call produces a distinct session.
func (m *SessionManager) Issue(userID string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	id := base64.RawURLEncoding.EncodeToString(raw)

	m.mu.Lock()
	m.sessions[id] = sessionEntry{
		userID:    userID,
		expiresAt: m.now().Add(SessionTTL),
	}
	m.mu.Unlock()

	return id + "." + m.sign(id), nil
}

// Validate resolves a cookie token to its bound user id. Missing, destroyed,
// expired, or tampered tokens all report false.
func (m *SessionManager) Validate(token string) (string, bool) {
	id, ok := m.verify(token)
	if !ok {
		return "", false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		return "", false
	}
	if m.now().After(entry.expiresAt) {
		delete(m.sessions, id)
		return "", false
	}
	return entry.userID, true
}

// Destroy removes the session. A token that no longer resolves is treated as
// already logged out.
func (m *SessionManager) Destroy(token string) error {
	id, ok := m.verify(token)
	if !ok {
		return nil
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// StartJanitor sweeps expired sessions in the background. The returned stop
// function halts the sweep goroutine.
func (m *SessionManager) StartJanitor(interval time.Duration) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

func (m *SessionManager) sweep() {
	now := m.now()
	m.mu.Lock()
	for id, entry := range m.sessions {
		if now.After(entry.expiresAt) {
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
}

func (m *SessionManager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// verify splits a token into id and signature and checks the signature in
// constant time.
func (m *SessionManager) verify(token string) (string, bool) {
	id, sig, ok := strings.Cut(token, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return "", false
	}
	return id, true
}

// Cookie builds the session cookie for a token. Secure is set only in
// production deployment mode, where the frontend talks HTTPS.
func Cookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

// ClearedCookie expires the session cookie on the client.
func ClearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:   SessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}
}
