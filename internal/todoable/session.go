package todoable

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TokenLifetime is how long a token is trusted after it was issued. The
// server does not report expiry in a form we rely on, so this is predicted
// client-side and must track the server's documented lifetime.
const TokenLifetime = 20 * time.Minute

// AuthFunc exchanges credentials for a token.
type AuthFunc func(ctx context.Context, creds Credentials) (string, error)

// Session owns the credentials and the current token. It starts
// unauthenticated; only Authenticate moves it to authenticated. At most one
// authenticate call is in flight at a time and concurrent callers share its
// result.
type Session struct {
	creds  Credentials
	auth   AuthFunc
	now    func() time.Time
	logger *zap.Logger

	group  singleflight.Group
	authMu sync.Mutex

	mu     sync.RWMutex
	token  string
	expiry time.Time
}

// NewSession builds an unauthenticated session.
func NewSession(creds Credentials, auth AuthFunc) *Session {
	return &Session{
		creds:  creds,
		auth:   auth,
		now:    time.Now,
		logger: zap.NewNop(),
	}
}

// Token returns the current token, or "" before the first successful
// authentication.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Expiry returns the predicted expiry of the current token.
func (s *Session) Expiry() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiry
}

// Authenticated reports whether a token is held, expired or not.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Authenticate exchanges the credentials for a fresh token, overwriting any
// previous token and expiry. A rejected exchange leaves the session
// unauthenticated.
func (s *Session) Authenticate(ctx context.Context) (string, error) {
	return s.exchange(ctx, true)
}

// EnsureValid returns a usable token. It fails with ErrNotAuthenticated if the
// session never authenticated and re-authenticates once when the token has
// expired.
func (s *Session) EnsureValid(ctx context.Context) (string, error) {
	s.mu.RLock()
	token, expiry := s.token, s.expiry
	s.mu.RUnlock()

	if token == "" {
		return "", ErrNotAuthenticated
	}
	if !s.now().After(expiry) {
		return token, nil
	}
	s.logger.Info("token expired, re-authenticating", zap.Time("expiry", expiry))
	return s.exchange(ctx, false)
}

// exchange runs the authenticate call inside the single-flight group. Lazy
// refreshes and explicit Authenticate calls use separate keys, so an explicit
// call never returns a token from an exchange it did not wait for; authMu
// still keeps a single exchange on the wire. When force is false the token is
// re-checked first so callers that queued behind an exchange reuse its result.
func (s *Session) exchange(ctx context.Context, force bool) (string, error) {
	key := "refresh"
	if force {
		key = "authenticate"
	}
	v, err, shared := s.group.Do(key, func() (any, error) {
		s.authMu.Lock()
		defer s.authMu.Unlock()

		if !force {
			s.mu.RLock()
			token, expiry := s.token, s.expiry
			s.mu.RUnlock()
			if token != "" && !s.now().After(expiry) {
				return token, nil
			}
		}

		token, err := s.auth(ctx, s.creds)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			var authErr *AuthenticationError
			if errors.As(err, &authErr) {
				s.token = ""
				s.expiry = time.Time{}
			}
			return "", err
		}
		s.token = token
		s.expiry = s.now().Add(TokenLifetime)
		return token, nil
	})
	if shared {
		s.logger.Debug("joined in-flight authentication")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
