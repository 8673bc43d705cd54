package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Service implements the register/login/current-user/logout workflows on top
// of the credential store and the session manager.
type Service struct {
	store    CredentialStore
	sessions *SessionManager
}

func NewService(store CredentialStore, sessions *SessionManager) *Service {
	return &Service{store: store, sessions: sessions}
}

// Register creates the user and issues a session. The duplicate pre-check is
// only a fast path; the store's uniqueness constraint is the source of truth,
// and both paths surface the same error.
func (s *Service) Register(ctx context.Context, email, password string) (PublicUser, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return PublicUser{}, "", ErrMissingFields
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return PublicUser{}, "", ErrDuplicateEmail
	} else if !errors.Is(err, ErrUserNotFound) {
		return PublicUser{}, "", err
	}

	// bcrypt.DefaultCost is 10 rounds. The raw password is never stored or
	// logged.
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return PublicUser{}, "", err
	}

	user, err := s.store.Create(ctx, email, string(hashed))
	if err != nil {
		return PublicUser{}, "", err
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return PublicUser{}, "", err
	}
	return user.Public(), token, nil
}

// Login verifies credentials and issues a fresh session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (PublicUser, string, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return PublicUser{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return PublicUser{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return PublicUser{}, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return PublicUser{}, "", err
	}
	return user.Public(), token, nil
}

// CurrentUser resolves a session token to the public user projection. A user
// deleted after the session was issued reports ErrUserNotFound.
func (s *Service) CurrentUser(ctx context.Context, token string) (PublicUser, error) {
	userID, ok := s.sessions.Validate(token)
	if !ok {
		return PublicUser{}, ErrUnauthenticated
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return PublicUser{}, err
	}
	return user.Public(), nil
}

// Logout destroys the session. Idempotent: an absent session counts as
// already logged out.
func (s *Service) Logout(token string) error {
	if err := s.sessions.Destroy(token); err != nil {
		return ErrSessionDestroy
	}
	return nil
}
