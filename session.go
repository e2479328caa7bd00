package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Session expiry policies applied when the profile refresh fails.
const (
	// ExpireOnAnyFailure ends the session on every refresh failure.
	ExpireOnAnyFailure = "any"
	// ExpireOnUnauthorized ends the session on a 401 only. Transport and
	// server failures keep the token so the caller may retry.
	ExpireOnUnauthorized = "unauthorized"
)

// SessionState is the authentication state of the visitor.
type SessionState int

const (
	StateAnonymous SessionState = iota
	StateAuthenticating
	StateAuthenticated
)

func (st SessionState) String() string {
	switch st {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// TokenProvider exposes the bearer token to the pages.
type TokenProvider interface {
	Token() string
	IsAuthenticated() bool
}

// SessionView is the read side consumed by the route guards.
type SessionView interface {
	Loading() bool
	IsAuthenticated() bool
	User() *Profile
}

var (
	_ TokenProvider = (*Session)(nil)
	_ SessionView   = (*Session)(nil)
)

// Session is the single source of truth about the visitor authentication.
// The token is authoritative, the user profile is derived from it through
// `/auth/me` every time the token changes. The token is mirrored into the
// TokenStore as soon as it changes.
type Session struct {
	logger   *zap.Logger
	auth     AuthAPI
	store    TokenStore
	clock    Clocker
	expireOn string

	mu         sync.RWMutex
	token      string
	user       *Profile
	state      SessionState
	generation uint64

	ready     chan struct{}
	readyOnce sync.Once
}

// NewSession provides an anonymous session still loading until Init runs.
func NewSession(logger *zap.Logger, auth AuthAPI, store TokenStore, clock Clocker, expireOn string) *Session {
	if expireOn == "" {
		expireOn = ExpireOnAnyFailure
	}
	return &Session{
		logger:   logger,
		auth:     auth,
		store:    store,
		clock:    clock,
		expireOn: expireOn,
		ready:    make(chan struct{}),
	}
}

// Init restores a previously persisted token and refreshes the profile.
// The session is marked ready once the attempt is over, whatever its outcome.
func (s *Session) Init(ctx context.Context) {
	defer s.markReady()

	token, err := s.store.Load(ctx)
	if errors.Is(err, ErrTokenNotFound) {
		s.logger.Debug("no session to restore")
		return
	}
	if err != nil {
		s.logger.Warn("failed to restore session token", zap.Error(err))
		return
	}

	if claims, ok := InspectToken(token); ok && claims.Expired(s.clock.Now()) {
		s.logger.Info("restored session token already expired", zap.Time("token.expires", claims.ExpiresAt))
		if err := s.store.Delete(ctx); err != nil {
			s.logger.Warn("failed to erase expired session token", zap.Error(err))
		}
		return
	}

	s.logger.Debug("session token restored")
	if err := s.adopt(ctx, token, false); err != nil {
		s.logger.Warn("restored session kept without profile", zap.Error(err))
	}
}

// Ready is closed once Init completed.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Loading reports whether Init has not completed yet.
func (s *Session) Loading() bool {
	select {
	case <-s.ready:
		return false
	default:
		return true
	}
}

func (s *Session) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Login exchanges the credentials for a token and adopts it. The api
// error is returned untouched on failure and the prior state is kept.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.setState(StateAuthenticating)
	resp, err := s.auth.Login(ctx, Credentials{Email: email, Password: password})
	if err != nil {
		s.settleState()
		s.logger.Info("login failed", zap.Error(err))
		return err
	}
	if resp.AccessToken == "" {
		s.settleState()
		return errors.New("login response carries no access token")
	}

	s.logger.Info("login succeeded", zap.String("token.type", resp.TokenType))
	if err := s.adopt(ctx, resp.AccessToken, true); err != nil {
		s.logger.Warn("profile unavailable after login", zap.Error(err))
	}
	return nil
}

// Register creates the account then logs in with the same credentials
// since the register call does not hand out a token.
func (s *Session) Register(ctx context.Context, email, password string) error {
	s.setState(StateAuthenticating)
	profile, err := s.auth.Register(ctx, Credentials{Email: email, Password: password})
	if err != nil {
		s.settleState()
		s.logger.Info("registration failed", zap.Error(err))
		return err
	}
	s.logger.Info("registration succeeded", zap.Int64("user.id", profile.ID))
	return s.Login(ctx, email, password)
}

// Logout forgets the token and the profile then erases the stored token.
// The in-memory session is cleared even when the store fails.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.state = StateAnonymous
	s.generation++
	s.mu.Unlock()

	if err := s.store.Delete(ctx); err != nil {
		s.logger.Error("failed to erase stored session token", zap.Error(err))
		return fmt.Errorf("failed to erase stored session token: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// RefreshProfile fetches the profile of the current token. A failure is an
// implicit logout and is not reported to the caller. Under the unauthorized
// policy only a 401 does so, other failures keep the token and are returned.
func (s *Session) RefreshProfile(ctx context.Context) error {
	s.mu.RLock()
	token, gen := s.token, s.generation
	s.mu.RUnlock()

	if token == "" {
		s.mu.Lock()
		s.user = nil
		s.mu.Unlock()
		return nil
	}

	profile, err := s.auth.Me(ctx, token)
	if err == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen {
			s.logger.Debug("stale profile dropped")
			return nil
		}
		s.user = &profile
		return nil
	}

	if s.shouldExpire(err) {
		s.logger.Info("session expired", zap.Error(err))
		s.expire(ctx, gen)
		return nil
	}

	s.mu.Lock()
	if s.generation == gen {
		s.user = nil
	}
	s.mu.Unlock()
	s.logger.Warn("profile refresh failed, session kept", zap.Error(err))
	return fmt.Errorf("failed to refresh profile: %w", err)
}

// Token returns the current bearer token, empty when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current profile or nil.
func (s *Session) User() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a token is held.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the current profile is an administrator.
func (s *Session) IsAdmin() bool {
	return s.User().IsAdmin()
}

// State returns the current authentication state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// adopt installs a new token, persists it when asked to and derives the profile.
func (s *Session) adopt(ctx context.Context, token string, persist bool) error {
	s.mu.Lock()
	s.token = token
	s.user = nil
	s.state = StateAuthenticated
	s.generation++
	s.mu.Unlock()

	if persist {
		if err := s.store.Save(ctx, token); err != nil {
			s.logger.Error("failed to persist session token", zap.Error(err))
		}
	}
	return s.RefreshProfile(ctx)
}

// expire clears the session unless the token changed since generation gen.
func (s *Session) expire(ctx context.Context, gen uint64) {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.user = nil
	s.state = StateAnonymous
	s.generation++
	s.mu.Unlock()

	if err := s.store.Delete(ctx); err != nil {
		s.logger.Error("failed to erase expired session token", zap.Error(err))
	}
}

func (s *Session) shouldExpire(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if s.expireOn == ExpireOnAnyFailure {
		return true
	}
	return IsUnauthorized(err)
}

func (s *Session) setState(st SessionState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// settleState ends an authentication attempt on the state the token implies.
func (s *Session) settleState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		s.state = StateAuthenticated
	} else {
		s.state = StateAnonymous
	}
}
