// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package session holds the authenticated user and the API token of the current invocation.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wneessen/rentalhub/internal/api"
	"github.com/wneessen/rentalhub/internal/logger"
)

var ErrNoToken = errors.New("API response did not contain a token")

// Authenticator is the part of the API that a session needs.
type Authenticator interface {
	Login(ctx context.Context, credentials api.Credentials) (api.AuthResponse, error)
	Register(ctx context.Context, registration api.Registration) (api.AuthResponse, error)
	CurrentUser(ctx context.Context) (api.User, error)
}

// Session is the explicit authentication context. It implements api.TokenSource.
type Session struct {
	store  Store
	auth   Authenticator
	logger *logger.Logger
	now    func() time.Time

	mu    sync.RWMutex
	token string
	user  *api.User
}

func New(store Store, auth Authenticator, log *logger.Logger) *Session {
	return &Session{
		store:  store,
		auth:   auth,
		logger: log,
		now:    time.Now,
	}
}

// Init restores the persisted session. Expired tokens are dropped without asking the API, any
// other token is checked against the current user endpoint and dropped if that fails.
func (s *Session) Init(ctx context.Context) error {
	state, err := s.store.Load()
	if err != nil {
		s.logger.Error("failed to load session, starting logged out", logger.Err(err))
		s.reset()
		return nil
	}
	if state.Token == "" {
		return nil
	}
	if exp, ok := expiresAt(state.Token); ok && !exp.After(s.now()) {
		s.logger.Info("session token expired", slog.Time("expired_at", exp))
		s.reset()
		return nil
	}

	s.mu.Lock()
	s.token = state.Token
	s.mu.Unlock()

	user, err := s.auth.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.logger.Error("auth check failed", logger.Err(err))
		s.reset()
		return nil
	}
	return s.set(state.Token, user)
}

// Login authenticates with the API and persists the token.
func (s *Session) Login(ctx context.Context, credentials api.Credentials) (api.User, error) {
	resp, err := s.auth.Login(ctx, credentials)
	if err != nil {
		return api.User{}, fmt.Errorf("failed to log in: %w", err)
	}
	if resp.Token == "" {
		return api.User{}, ErrNoToken
	}
	return resp.User, s.set(resp.Token, resp.User)
}

// Register creates an account and persists the token of the new user.
func (s *Session) Register(ctx context.Context, registration api.Registration) (api.User, error) {
	resp, err := s.auth.Register(ctx, registration)
	if err != nil {
		return api.User{}, fmt.Errorf("failed to register: %w", err)
	}
	if resp.Token == "" {
		return api.User{}, ErrNoToken
	}
	return resp.User, s.set(resp.Token, resp.User)
}

// Logout drops the token and the user.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	return s.store.Clear()
}

// Invalidate drops the session after the API rejected its token.
func (s *Session) Invalidate() {
	s.logger.Warn("API rejected the session token, logging out")
	s.reset()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the logged in user.
func (s *Session) User() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return api.User{}, false
	}
	return *s.user, true
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

func (s *Session) IsOwner() bool {
	return s.hasType(api.UserTypeOwner)
}

func (s *Session) IsTenant() bool {
	return s.hasType(api.UserTypeTenant)
}

// ExpiresAt returns the expiry of the token, if the token carries one.
func (s *Session) ExpiresAt() (time.Time, bool) {
	return expiresAt(s.Token())
}

func (s *Session) hasType(userType api.UserType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.UserType == userType
}

func (s *Session) set(token string, user api.User) error {
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	if err := s.store.Save(State{Token: token, User: &user}); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// reset clears the in-memory and the persisted state. Store errors are logged only.
func (s *Session) reset() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		s.logger.Error("failed to clear session", logger.Err(err))
	}
}

// expiresAt reads the exp claim without verifying the signature.
func expiresAt(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
