package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/mbadmin/internal/controller"
)

// loginResultMsg carries the outcome of a login attempt.
type loginResultMsg struct {
	ok    bool
	email string
}

// loginValues is bound to the form fields. It lives on the heap because the
// model is copied on every Update.
type loginValues struct {
	email    string
	password string
}

type loginModel struct {
	auth       *controller.AuthController
	form       *huh.Form
	values     *loginValues
	submitting bool
	errMsg     string
	width      int
	height     int
}

func newLoginModel(auth *controller.AuthController) loginModel {
	m := loginModel{auth: auth}
	m.form, m.values = newLoginForm("")
	return m
}

func newLoginForm(email string) (*huh.Form, *loginValues) {
	v := &loginValues{email: email}
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Email").
			Placeholder("admin@example.com").
			Value(&v.email).
			Validate(validateEmailField),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&v.password).
			Validate(func(s string) error {
				if s == "" {
					return errors.New(controller.MsgPasswordRequired)
				}
				return nil
			}),
	)).WithShowHelp(false)
	return form, v
}

func validateEmailField(s string) error {
	if !controller.ValidEmail(strings.TrimSpace(s)) {
		return errors.New(controller.MsgInvalidEmail)
	}
	return nil
}

func (m loginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m loginModel) submit() tea.Cmd {
	auth := m.auth
	email := strings.TrimSpace(m.values.email)
	password := m.values.password
	return func() tea.Msg {
		ok := auth.Login(context.Background(), email, password)
		return loginResultMsg{ok: ok, email: email}
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form = m.form.WithWidth(min(msg.Width, 60))
		return m, nil

	case loginResultMsg:
		m.submitting = false
		if msg.ok {
			m.errMsg = ""
			return m, nil
		}
		// Keep the email, ask for the password again.
		m.errMsg = "Login failed"
		if st := m.auth.LastError(); st != "" {
			m.errMsg = st
		}
		m.form, m.values = newLoginForm(msg.email)
		return m, m.form.Init()
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
		if m.form.State == huh.StateCompleted {
			m.submitting = true
			m.errMsg = ""
			return m, m.submit()
		}
	}
	return m, cmd
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in to the admin dashboard"))
	b.WriteString("\n")
	if m.submitting {
		b.WriteString(dimStyle.Render("Signing in..."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.form.View())
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(m.errMsg) + "\n")
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.border).
		Padding(1, 3).
		Render(b.String())
	if m.width == 0 {
		return box
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box)
}
