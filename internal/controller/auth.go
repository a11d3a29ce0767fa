package controller

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/naveenspark/mbadmin/internal/store"
	"github.com/naveenspark/mbadmin/pkg/client"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

// Session is the session store as the auth controller needs it.
type Session interface {
	Login(ctx context.Context, email, password string) error
	Logout() error
	IsAuthenticated() bool
	State() store.SessionState
	ClearError()
	SetLoading(loading bool)
}

// AuthController drives login and logout.
type AuthController struct {
	session Session
	notify  Notifier
	log     zerolog.Logger
}

// NewAuthController creates an AuthController.
func NewAuthController(session Session, n Notifier, log zerolog.Logger) *AuthController {
	return &AuthController{
		session: session,
		notify:  n,
		log:     log.With().Str("component", "auth").Logger(),
	}
}

// Login signs in and reports the outcome as a notification.
func (c *AuthController) Login(ctx context.Context, email, password string) bool {
	c.session.SetLoading(true)
	defer c.session.SetLoading(false)

	if err := c.session.Login(ctx, email, password); err != nil {
		msg := client.Message(err)
		if msg == "" {
			msg = "Invalid credentials"
		}
		c.notify.Error("Login Failed", msg)
		return false
	}
	c.notify.Success("Login Successful", "Welcome back!")
	return true
}

// Logout signs out.
func (c *AuthController) Logout() error {
	if err := c.session.Logout(); err != nil {
		return report(c.notify, c.log, "Logout Error", "Failed to logout", err)
	}
	c.notify.Success("Logged Out", "You have been successfully logged out")
	return nil
}

func (c *AuthController) CheckAuthStatus() bool {
	return c.session.IsAuthenticated()
}

// CurrentUser returns the signed-in principal, or nil.
func (c *AuthController) CurrentUser() *domain.UserData {
	return c.session.State().User
}

func (c *AuthController) ClearError() {
	c.session.ClearError()
}

// LastError returns the message recorded by the last failed login, if any.
func (c *AuthController) LastError() string {
	return c.session.State().Error
}
