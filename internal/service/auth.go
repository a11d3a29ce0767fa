package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/naveenspark/mbadmin/pkg/client"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

// AuthService talks to /auth and owns the stored credential pair.
type AuthService struct {
	gw     Gateway
	creds  *CredentialStore
	signal *client.Signal
	log    zerolog.Logger
}

// NewAuthService creates an AuthService. signal is raised on logout; it is
// normally the gateway's SessionInvalidated signal.
func NewAuthService(gw Gateway, creds *CredentialStore, signal *client.Signal, log zerolog.Logger) *AuthService {
	return &AuthService{
		gw:     gw,
		creds:  creds,
		signal: signal,
		log:    log.With().Str("component", "auth").Logger(),
	}
}

// Login exchanges credentials for an access token and the principal.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := s.gw.Post(ctx, "/auth/login", domain.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	s.log.Info().Int("user_id", resp.UserData.ID).Msg("login succeeded")
	return &resp, nil
}

// Logout forgets the stored credentials and raises the session signal.
func (s *AuthService) Logout() error {
	err := s.creds.Clear()
	if err != nil {
		s.log.Warn().Err(err).Msg("clear stored credentials")
	}
	if s.signal != nil {
		s.signal.Emit()
	}
	return err
}

// GetStoredToken returns the persisted token, or "".
func (s *AuthService) GetStoredToken() (string, error) {
	return s.creds.GetStoredToken()
}

// GetStoredUserData returns the persisted principal, or nil.
func (s *AuthService) GetStoredUserData() (*domain.UserData, error) {
	return s.creds.GetStoredUserData()
}

// StoreAuthData persists the credential pair.
func (s *AuthService) StoreAuthData(token string, user domain.UserData) error {
	return s.creds.StoreAuthData(token, user)
}

// IsAuthenticated reports whether a token is stored.
func (s *AuthService) IsAuthenticated() bool {
	tok, err := s.creds.GetStoredToken()
	return err == nil && tok != ""
}

// TokenExpiry reads the exp claim without verifying the signature. The
// signature is the backend's business; the value is only a display hint.
func TokenExpiry(token string) (time.Time, bool) {
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
