package tui

import (
	"strings"
	"testing"

	"github.com/naveenspark/mbadmin/internal/controller"
)

func TestLoginFailureKeepsEmail(t *testing.T) {
	env := newTestEnv(t)
	m := newLoginModel(env.deps.Auth)
	m.submitting = true

	m, cmd := m.Update(loginResultMsg{ok: false, email: "ada@example.com"})
	if m.submitting {
		t.Error("submitting should be cleared")
	}
	if m.values.email != "ada@example.com" {
		t.Errorf("email = %q, want it kept", m.values.email)
	}
	if m.values.password != "" {
		t.Error("password should be cleared")
	}
	if cmd == nil {
		t.Error("expected the new form to initialize")
	}
	if !strings.Contains(m.View(), "Login failed") {
		t.Error("failure should be shown")
	}
}

func TestLoginSubmittingIgnoresInput(t *testing.T) {
	env := newTestEnv(t)
	m := newLoginModel(env.deps.Auth)
	m.submitting = true
	m, cmd := m.Update(keyRunes("a"))
	if cmd != nil {
		t.Error("input during submit should be ignored")
	}
	if !strings.Contains(m.View(), "Signing in") {
		t.Error("expected a progress line")
	}
}

func TestValidateEmailField(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"ada@example.com", false},
		{" ada@example.com ", false},
		{"ada@example", true},
		{"", true},
	}
	for _, tc := range tests {
		err := validateEmailField(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("validateEmailField(%q) = %v", tc.in, err)
		}
		if err != nil && err.Error() != controller.MsgInvalidEmail {
			t.Errorf("message = %q", err.Error())
		}
	}
}
