// Package session holds the client's notion of who is logged in. A Store is
// created once per process and passed explicitly to everything that needs it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/agentmarket/internal/client/client"
	"github.com/dmitrijs2005/agentmarket/internal/client/models"
	"github.com/dmitrijs2005/agentmarket/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotAuthenticated       = errors.New("not authenticated")
	ErrRegistrationFailed     = errors.New("registration failed")
	ErrLoginAfterRegistration = errors.New("account created but login failed")
)

// State is a node of the session lifecycle.
type State int

const (
	StateUnknown State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	State State
	Token string
	User  *models.User
	Error string
}

// Loading reports whether the session is not yet resolved. Unknown counts as
// loading: nothing has decided yet whether a persisted session exists.
func (s Snapshot) Loading() bool {
	return s.State == StateUnknown || s.State == StateLoading
}

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Store is the single source of truth for the current session. It is safe
// for concurrent use; gateway calls are made without holding the lock.
type Store struct {
	auth   client.AuthGateway
	tokens TokenStore
	log    logging.Logger

	mu     sync.RWMutex
	state  State
	token  string
	user   *models.User
	errMsg string

	once  sync.Once
	ready chan struct{}
}

func New(auth client.AuthGateway, tokens TokenStore, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		auth:   auth,
		tokens: tokens,
		log:    log,
		ready:  make(chan struct{}),
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		State: s.state,
		Token: s.token,
		User:  s.user.Clone(),
		Error: s.errMsg,
	}
}

// Wait blocks until rehydration has resolved or ctx is done.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Rehydrate restores a persisted session. Only the first call does any work.
// Without a persisted token no request is made. Any failure to confirm the
// token purges it.
func (s *Store) Rehydrate(ctx context.Context) {
	s.once.Do(func() {
		defer close(s.ready)

		token, err := s.tokens.Load(ctx)
		if err != nil {
			s.log.Warn(ctx, "reading persisted token failed", "error", err)
		}
		if token == "" {
			s.setAnonymous("")
			return
		}

		s.mu.Lock()
		s.state = StateLoading
		s.mu.Unlock()

		res := s.auth.CurrentUser(ctx, token)
		if !res.OK() || res.Data == nil {
			s.log.Info(ctx, "persisted session rejected", "error", res.Error)
			s.purge(ctx)
			s.setAnonymous("")
			return
		}

		s.setAuthenticated(token, res.Data)
		s.log.Info(ctx, "session restored", "user", res.Data.Username)
	})
}

// Login exchanges creds for a session. On failure the error message is
// recorded and the previous session, if any, is left as it was.
func (s *Store) Login(ctx context.Context, creds models.Credentials) error {
	res := s.auth.Login(ctx, creds)
	if !res.OK() {
		s.setError(res.Error)
		return res.Err()
	}

	if err := s.tokens.Save(ctx, res.Data.Token); err != nil {
		s.log.Warn(ctx, "persisting token failed", "error", err)
	}
	s.setAuthenticated(res.Data.Token, res.Data.User)
	s.log.Info(ctx, "logged in", "user", creds.Username)
	return nil
}

// Register creates the account and logs into it. A failure is reported as
// ErrRegistrationFailed or ErrLoginAfterRegistration depending on which step
// failed.
func (s *Store) Register(ctx context.Context, data models.Registration) error {
	res := s.auth.Register(ctx, data)
	if !res.OK() {
		s.setError(res.Error)
		return fmt.Errorf("%w: %w", ErrRegistrationFailed, res.Err())
	}

	if err := s.Login(ctx, data.Credentials()); err != nil {
		return fmt.Errorf("%w: %w", ErrLoginAfterRegistration, err)
	}
	return nil
}

// Logout forgets the session locally. The server is not contacted.
func (s *Store) Logout(ctx context.Context) error {
	s.setAnonymous("")
	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear persisted token: %w", err)
	}
	return nil
}

// UpdateUser sends patch and replaces the local user with the server's
// representation.
func (s *Store) UpdateUser(ctx context.Context, patch models.UserUpdate) error {
	token := s.currentToken()
	if token == "" {
		return ErrNotAuthenticated
	}

	res := s.auth.UpdateUser(ctx, token, patch)
	if !res.OK() {
		return s.fail(ctx, res.Error, res.IsUnauthorized(), res.Err())
	}

	s.mu.Lock()
	if s.token == token && res.Data != nil {
		s.user = res.Data.Clone()
		s.errMsg = ""
	}
	s.mu.Unlock()
	return nil
}

// Refresh re-reads the current user from the server. A rejected token ends
// the session.
func (s *Store) Refresh(ctx context.Context) error {
	token := s.currentToken()
	if token == "" {
		return ErrNotAuthenticated
	}

	res := s.auth.CurrentUser(ctx, token)
	if !res.OK() {
		return s.fail(ctx, res.Error, res.IsUnauthorized(), res.Err())
	}

	s.mu.Lock()
	if s.token == token && res.Data != nil {
		s.user = res.Data.Clone()
	}
	s.mu.Unlock()
	return nil
}

// Renew trades the current token for a fresh one and persists it. If the
// session changed while the request was in flight the new token is dropped.
func (s *Store) Renew(ctx context.Context) error {
	token := s.currentToken()
	if token == "" {
		return ErrNotAuthenticated
	}

	res := s.auth.RefreshToken(ctx, token)
	if !res.OK() {
		return s.fail(ctx, res.Error, res.IsUnauthorized(), res.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		s.log.Info(ctx, "session changed during renewal, discarding new token")
		return nil
	}
	if err := s.tokens.Save(ctx, res.Data.Token); err != nil {
		s.log.Warn(ctx, "persisting token failed", "error", err)
	}
	s.token = res.Data.Token
	if res.Data.User != nil {
		s.user = res.Data.User.Clone()
	}
	s.log.Info(ctx, "session renewed")
	return nil
}

// ReconcileBalance sets the local balance to the server-confirmed value.
func (s *Store) ReconcileBalance(balance models.Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	u := s.user.Clone()
	u.TokenBalance = balance
	s.user = u
}

// MarkPurchased records agentID as owned by the current user.
func (s *Store) MarkPurchased(agentID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.HasPurchased(agentID) {
		return
	}
	u := s.user.Clone()
	u.AgentPurchases = append(u.AgentPurchases, agentID)
	s.user = u
}

// TokenExpiry reads the exp claim of the bearer token. The signature is not
// checked; the result is for display only.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.currentToken()
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

func (s *Store) currentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) fail(ctx context.Context, msg string, unauthorized bool, err error) error {
	if unauthorized {
		s.log.Info(ctx, "session expired", "error", msg)
		s.purge(ctx)
		s.setAnonymous(msg)
		return err
	}
	s.setError(msg)
	return err
}

func (s *Store) purge(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Warn(ctx, "purging persisted token failed", "error", err)
	}
}

func (s *Store) setAuthenticated(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAuthenticated
	s.token = token
	s.user = user.Clone()
	s.errMsg = ""
}

func (s *Store) setAnonymous(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.token = ""
	s.user = nil
	s.errMsg = msg
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}
