package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/naveenspark/mbadmin/internal/controller"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

// userSavedMsg reports a finished create or update.
type userSavedMsg struct {
	user *domain.User
	err  error
}

// formClosedMsg returns to the users table.
type formClosedMsg struct {
	saved bool
}

type userFormValues struct {
	firstName string
	lastName  string
	email     string
	password  string
	icNumber  string
	icType    int
	gender    int
	status    int
	verified  bool
}

func valuesFromUser(u *domain.User) *userFormValues {
	if u == nil {
		return &userFormValues{
			icType: domain.ICTypeOptions[0].Value,
			gender: domain.GenderOptions[0].Value,
			status: domain.RecordStatusOptions[0].Value,
		}
	}
	v := &userFormValues{
		firstName: u.FirstName,
		lastName:  u.LastName,
		email:     u.Email,
		icType:    u.ICTypeID,
		gender:    u.GenderID,
		status:    u.RecordStatusID,
		verified:  u.IsVerified,
	}
	if u.ICNumber != 0 {
		v.icNumber = strconv.FormatInt(u.ICNumber, 10)
	}
	return v
}

// createRequest turns the form into a create payload.
func createRequest(v userFormValues) (domain.CreateUserRequest, error) {
	ic, err := parseICNumber(v.icNumber)
	if err != nil {
		return domain.CreateUserRequest{}, err
	}
	return domain.CreateUserRequest{
		FirstName:      strings.TrimSpace(v.firstName),
		LastName:       strings.TrimSpace(v.lastName),
		Email:          strings.TrimSpace(v.email),
		Password:       v.password,
		ICNumber:       ic,
		ICTypeID:       v.icType,
		GenderID:       v.gender,
		IsVerified:     v.verified,
		RecordStatusID: v.status,
	}, nil
}

// updateRequest carries only the fields that differ from orig. An empty
// password keeps the current one.
func updateRequest(v userFormValues, orig domain.User) (domain.UpdateUserRequest, error) {
	var req domain.UpdateUserRequest
	if s := strings.TrimSpace(v.firstName); s != orig.FirstName {
		req.FirstName = domain.Some(s)
	}
	if s := strings.TrimSpace(v.lastName); s != orig.LastName {
		req.LastName = domain.Some(s)
	}
	if s := strings.TrimSpace(v.email); s != orig.Email {
		req.Email = domain.Some(s)
	}
	if v.password != "" {
		req.Password = domain.Some(v.password)
	}
	if strings.TrimSpace(v.icNumber) != "" {
		ic, err := parseICNumber(v.icNumber)
		if err != nil {
			return req, err
		}
		if ic != orig.ICNumber {
			req.ICNumber = domain.Some(ic)
		}
	}
	if v.icType != orig.ICTypeID {
		req.ICTypeID = domain.Some(v.icType)
	}
	if v.gender != orig.GenderID {
		req.GenderID = domain.Some(v.gender)
	}
	if v.verified != orig.IsVerified {
		req.IsVerified = domain.Some(v.verified)
	}
	if v.status != orig.RecordStatusID {
		req.RecordStatusID = domain.Some(v.status)
	}
	return req, nil
}

func parseICNumber(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.New(controller.MsgInvalidICNumber)
	}
	return n, nil
}

func requireText(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

func validateICField(s string) error {
	n, err := parseICNumber(s)
	if err != nil {
		return err
	}
	if n < controller.MinICNumber {
		return errors.New(controller.MsgInvalidICNumber)
	}
	return nil
}

func huhOptions(opts []domain.Option) []huh.Option[int] {
	out := make([]huh.Option[int], len(opts))
	for i, o := range opts {
		out[i] = huh.NewOption(o.Label, o.Value)
	}
	return out
}

type formModel struct {
	users      *controller.UserController
	original   *domain.User
	form       *huh.Form
	values     *userFormValues
	submitting bool
	errs       []string
	width      int
}

func newFormModel(users *controller.UserController, u *domain.User) formModel {
	m := formModel{users: users, original: u, values: valuesFromUser(u)}
	m.form = newUserForm(m.values, u != nil)
	return m
}

func newUserForm(v *userFormValues, editing bool) *huh.Form {
	password := huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&v.password)
	if editing {
		password = password.
			Description("Leave blank to keep the current password").
			Validate(func(s string) error {
				if s != "" && len(s) < 6 {
					return errors.New(controller.MsgPasswordTooShort)
				}
				return nil
			})
	} else {
		password = password.Validate(func(s string) error {
			if len(s) < 6 {
				return errors.New(controller.MsgPasswordTooShort)
			}
			return nil
		})
	}

	ic := huh.NewInput().
		Title("IC number").
		Placeholder("12 digits").
		Value(&v.icNumber)
	if editing {
		ic = ic.Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return nil
			}
			return validateICField(s)
		})
	} else {
		ic = ic.Validate(validateICField)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("First name").Value(&v.firstName).
				Validate(requireText(controller.MsgFirstNameRequired)),
			huh.NewInput().Title("Last name").Value(&v.lastName).
				Validate(requireText(controller.MsgLastNameRequired)),
			huh.NewInput().Title("Email").Value(&v.email).
				Validate(validateEmailField),
			password,
			ic,
		),
		huh.NewGroup(
			huh.NewSelect[int]().Title("IC type").
				Options(huhOptions(domain.ICTypeOptions)...).
				Value(&v.icType),
			huh.NewSelect[int]().Title("Gender").
				Options(huhOptions(domain.GenderOptions)...).
				Value(&v.gender),
			huh.NewSelect[int]().Title("Record status").
				Options(huhOptions(domain.RecordStatusOptions)...).
				Value(&v.status),
			huh.NewConfirm().Title("Verified").
				Affirmative("Yes").
				Negative("No").
				Value(&v.verified),
		),
	).WithShowHelp(false)
}

func (m formModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m formModel) title() string {
	if m.original == nil {
		return "New user"
	}
	return fmt.Sprintf("Edit %s", m.original.FullName())
}

func (m formModel) save() tea.Cmd {
	users := m.users
	v := *m.values
	orig := m.original
	return func() tea.Msg {
		ctx := context.Background()
		if orig == nil {
			req, err := createRequest(v)
			if err != nil {
				return userSavedMsg{err: err}
			}
			u, err := users.CreateUser(ctx, req)
			return userSavedMsg{user: u, err: err}
		}
		req, err := updateRequest(v, *orig)
		if err != nil {
			return userSavedMsg{err: err}
		}
		u, err := users.UpdateUser(ctx, orig.ID, req)
		return userSavedMsg{user: u, err: err}
	}
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.form = m.form.WithWidth(min(msg.Width, 70))
		return m, nil

	case userSavedMsg:
		m.submitting = false
		if msg.err == nil {
			return m, func() tea.Msg { return formClosedMsg{saved: true} }
		}
		m.errs = nil
		var vErr *controller.ValidationError
		if errors.As(msg.err, &vErr) {
			m.errs = vErr.Violations
		} else {
			m.errs = []string{msg.err.Error()}
		}
		// Same values, fresh form.
		m.form = newUserForm(m.values, m.original != nil)
		if m.width > 0 {
			m.form = m.form.WithWidth(min(m.width, 70))
		}
		return m, m.form.Init()

	case tea.KeyMsg:
		if msg.String() == "esc" && !m.submitting {
			return m, func() tea.Msg { return formClosedMsg{} }
		}
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
		switch m.form.State {
		case huh.StateCompleted:
			m.submitting = true
			m.errs = nil
			return m, m.save()
		case huh.StateAborted:
			return m, func() tea.Msg { return formClosedMsg{} }
		}
	}
	return m, cmd
}

func (m formModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n")
	if m.submitting {
		b.WriteString(dimStyle.Render("Saving..."))
		return b.String()
	}
	for _, e := range m.errs {
		b.WriteString(errorStyle.Render("• "+e) + "\n")
	}
	if len(m.errs) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(m.form.View())
	return b.String()
}
