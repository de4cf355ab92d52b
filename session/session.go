// Package session holds the signed-in user for the lifetime of the process.
// It is created once at startup, initialised from the saved token, and
// passed explicitly to whatever needs it.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"cineconnect-cli/model"
	"cineconnect-cli/service"
	"cineconnect-cli/store"
)

var (
	ErrNotAuthenticated = errors.New("not logged in")
	ErrSessionExpired   = errors.New("saved session expired, please log in again")
)

// RoleError is returned by Require when the user is signed in with a role
// that is not allowed.
type RoleError struct {
	Role     string
	Required []string
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("unauthorized: role %q cannot do this, requires %s", e.Role, strings.Join(e.Required, " or "))
}

// AuthAPI is the part of the API client the session talks to.
type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (model.AuthResult, error)
	Register(ctx context.Context, name string, creds model.Credentials) (model.AuthResult, error)
	Profile(ctx context.Context, token string) (model.User, error)
	Logout(ctx context.Context, token string) error
}

// TokenStore persists the session between runs.
type TokenStore interface {
	Load() (store.SavedSession, bool, error)
	Save(store.SavedSession) error
	Clear() error
}

type Session struct {
	api   AuthAPI
	store TokenStore
	log   logrus.FieldLogger
	now   func() time.Time

	mu    sync.RWMutex
	token string
	user  *model.User
}

type Option func(*Session)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func New(api AuthAPI, tokens TokenStore, opts ...Option) *Session {
	s := &Session{
		api:   api,
		store: tokens,
		log:   logrus.StandardLogger(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init restores the saved session. Tokens that are expired or rejected by
// the server are cleared. When the server cannot be reached the saved token
// is kept for the next run and the session starts signed out.
func (s *Session) Init(ctx context.Context) error {
	saved, ok, err := s.store.Load()
	if err != nil {
		s.log.WithError(err).Warn("discarding unreadable session file")
		return errors.Join(fmt.Errorf("load session: %w", err), s.store.Clear())
	}
	if !ok {
		return nil
	}

	if expired(saved.Token, s.now()) {
		s.log.Info("saved token expired")
		if err := s.store.Clear(); err != nil {
			return err
		}
		return ErrSessionExpired
	}

	user, err := s.api.Profile(ctx, saved.Token)
	if err != nil {
		if service.IsUnauthorized(err) || service.IsForbidden(err) {
			s.log.WithError(err).Info("saved token rejected by server")
			if clearErr := s.store.Clear(); clearErr != nil {
				return clearErr
			}
			return ErrSessionExpired
		}
		s.log.WithError(err).Warn("could not validate saved session")
		return fmt.Errorf("validate session: %w", err)
	}

	s.set(saved.Token, user)
	if err := s.store.Save(store.SavedSession{Token: saved.Token, User: user}); err != nil {
		s.log.WithError(err).Warn("could not refresh saved session")
	}
	s.log.WithFields(logrus.Fields{"user_id": user.Id, "role": user.Role}).Debug("session restored")
	return nil
}

func (s *Session) Login(ctx context.Context, email string, password string) (model.User, error) {
	result, err := s.api.Login(ctx, model.Credentials{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return model.User{}, err
	}
	return s.adopt(result)
}

// Register creates a customer account and signs it in.
func (s *Session) Register(ctx context.Context, name string, email string, password string) (model.User, error) {
	result, err := s.api.Register(ctx, name, model.Credentials{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return model.User{}, err
	}
	return s.adopt(result)
}

func (s *Session) adopt(result model.AuthResult) (model.User, error) {
	if result.Token == "" {
		return model.User{}, errors.New("server returned no token")
	}
	s.set(result.Token, result.User)
	if err := s.store.Save(store.SavedSession{Token: result.Token, User: result.User}); err != nil {
		return result.User, fmt.Errorf("save session: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": result.User.Id, "role": result.User.Role}).Info("signed in")
	return result.User, nil
}

// Logout revokes the token server-side when possible. The saved and
// in-memory session are cleared whatever the server answers.
func (s *Session) Logout(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		if saved, ok, err := s.store.Load(); err == nil && ok {
			token = saved.Token
		}
	}
	if token != "" {
		if err := s.api.Logout(ctx, token); err != nil {
			s.log.WithError(err).Warn("server logout failed")
		}
	}
	s.set("", model.User{})
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Info("signed out")
	return nil
}

// HandleUnauthorized drops the session after the API answered 401.
func (s *Session) HandleUnauthorized() {
	if s.Token() == "" {
		return
	}
	s.set("", model.User{})
	if err := s.store.Clear(); err != nil {
		s.log.WithError(err).Warn("could not clear saved session")
	}
	s.log.Info("session revoked by server")
}

// Token returns the bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}

// Require returns the current user if it holds one of roles. With no roles
// any signed-in user passes.
func (s *Session) Require(roles ...string) (model.User, error) {
	user, ok := s.User()
	if !ok {
		return model.User{}, ErrNotAuthenticated
	}
	if len(roles) > 0 && !slices.Contains(roles, user.Role) {
		return user, &RoleError{Role: user.Role, Required: roles}
	}
	return user, nil
}

func (s *Session) set(token string, user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if token == "" {
		s.user = nil
		return
	}
	s.user = &user
}

// expired reads the exp claim without verifying the signature; the
// backend owns the key. Tokens that are not JWTs are left to the server.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
