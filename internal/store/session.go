package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/naveenspark/mbadmin/internal/service"
	"github.com/naveenspark/mbadmin/internal/storage"
	"github.com/naveenspark/mbadmin/pkg/client"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

// AuthService is what the Session delegates network and credential work to.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	Logout() error
	GetStoredToken() (string, error)
	GetStoredUserData() (*domain.UserData, error)
	StoreAuthData(token string, user domain.UserData) error
}

// SessionState is a point-in-time copy of the session.
type SessionState struct {
	User          *domain.UserData
	Token         string
	Authenticated bool
	Loading       bool
	Error         string
	// ExpiresAt is the token's exp claim, zero when unknown.
	ExpiresAt time.Time
}

func (s SessionState) String() string {
	name := "<none>"
	if s.User != nil {
		name = s.User.Email
	}
	return fmt.Sprintf("SessionState{user=%s authenticated=%t loading=%t error=%q token=%s}",
		name, s.Authenticated, s.Loading, s.Error, redact(s.Token))
}

// MarshalZerologObject logs the state with the token redacted.
func (s SessionState) MarshalZerologObject(e *zerolog.Event) {
	if s.User != nil {
		e.Int("user_id", s.User.ID).Str("email", s.User.Email)
	}
	e.Bool("authenticated", s.Authenticated).
		Bool("loading", s.Loading).
		Str("token", redact(s.Token))
	if s.Error != "" {
		e.Str("error", s.Error)
	}
}

func redact(token string) string {
	if token == "" {
		return ""
	}
	return "[redacted]"
}

type persistedSession struct {
	User            *domain.UserData `json:"user"`
	Token           string           `json:"token"`
	IsAuthenticated bool             `json:"isAuthenticated"`
}

// Session is the authenticated principal and its credential.
type Session struct {
	mu      sync.RWMutex
	state   SessionState
	auth    AuthService
	kv      storage.Storage
	log     zerolog.Logger
	changes client.Signal
	unsub   func()
}

// NewSession restores the persisted slice from kv and tears the session down
// whenever invalidated fires. invalidated may be nil.
func NewSession(auth AuthService, kv storage.Storage, invalidated *client.Signal, log zerolog.Logger) *Session {
	s := &Session{
		auth: auth,
		kv:   kv,
		log:  log.With().Str("component", "session").Logger(),
	}
	if p, ok, err := load[persistedSession](kv, SessionKey); err != nil {
		s.log.Warn().Err(err).Msg("discarding persisted session")
	} else if ok {
		s.state = authenticatedState(p.User, p.Token)
	}
	if invalidated != nil {
		s.unsub = invalidated.Subscribe(s.invalidate)
	}
	return s
}

// authenticatedState keeps Authenticated true only when user and token are both set.
func authenticatedState(user *domain.UserData, token string) SessionState {
	if user == nil || token == "" {
		return SessionState{}
	}
	st := SessionState{User: user, Token: token, Authenticated: true}
	if exp, ok := service.TokenExpiry(token); ok {
		st.ExpiresAt = exp
	}
	return st
}

// Close detaches from the invalidation signal.
func (s *Session) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}

// State returns a copy of the current state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// IsAuthenticated reports whether a principal and credential are present.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

// OnChange registers fn to run after every mutation.
func (s *Session) OnChange(fn func()) (unsubscribe func()) {
	return s.changes.Subscribe(fn)
}

// update applies fn under the lock, persists and notifies.
func (s *Session) update(fn func(st *SessionState)) {
	s.mu.Lock()
	fn(&s.state)
	p := persistedSession{User: s.state.User, Token: s.state.Token, IsAuthenticated: s.state.Authenticated}
	save(s.kv, SessionKey, p, s.log)
	s.mu.Unlock()
	s.changes.Emit()
}

// Login authenticates against the backend. On failure the error message is
// recorded and err is returned unchanged. Loading is cleared on every path.
func (s *Session) Login(ctx context.Context, email, password string) (err error) {
	s.update(func(st *SessionState) {
		st.Loading = true
		st.Error = ""
	})
	defer func() {
		s.update(func(st *SessionState) {
			st.Loading = false
			if err != nil {
				st.Error = client.Message(err)
				if st.Error == "" {
					st.Error = "Login failed"
				}
			}
		})
	}()

	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.log.Info().Err(err).Msg("login rejected")
		return err
	}
	if resp.AccessToken == "" {
		return errors.New("login response carried no access token")
	}
	if err := s.auth.StoreAuthData(resp.AccessToken, resp.UserData); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}

	user := resp.UserData
	s.update(func(st *SessionState) {
		next := authenticatedState(&user, resp.AccessToken)
		next.Loading = st.Loading
		*st = next
	})
	s.log.Info().Object("session", s.State()).Msg("logged in")
	return nil
}

// Logout clears the session, then has the auth service drop the stored
// credentials and raise the invalidation signal.
func (s *Session) Logout() error {
	s.clear()
	return s.auth.Logout()
}

func (s *Session) invalidate() {
	if s.IsAuthenticated() {
		s.log.Info().Msg("session invalidated")
	}
	s.clear()
}

func (s *Session) clear() {
	s.update(func(st *SessionState) {
		*st = SessionState{Loading: st.Loading}
	})
}

// HydrateFromStorage adopts the stored credential pair when both halves are
// present. The token is not re-validated. Calling it again is harmless.
func (s *Session) HydrateFromStorage() error {
	token, err := s.auth.GetStoredToken()
	if err != nil {
		return fmt.Errorf("read stored token: %w", err)
	}
	user, err := s.auth.GetStoredUserData()
	if err != nil {
		return fmt.Errorf("read stored user: %w", err)
	}
	if token == "" || user == nil {
		return nil
	}
	s.update(func(st *SessionState) {
		next := authenticatedState(user, token)
		next.Loading = st.Loading
		next.Error = st.Error
		*st = next
	})
	return nil
}

// ClearError drops the last error message.
func (s *Session) ClearError() {
	s.update(func(st *SessionState) { st.Error = "" })
}

// SetLoading sets the loading flag.
func (s *Session) SetLoading(loading bool) {
	s.update(func(st *SessionState) { st.Loading = loading })
}
