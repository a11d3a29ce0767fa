package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/mbadmin/internal/controller"
	"github.com/naveenspark/mbadmin/pkg/domain"
)

func TestCreateRequestFromForm(t *testing.T) {
	v := userFormValues{
		firstName: "  Ada ",
		lastName:  "Lovelace",
		email:     "ada@example.com ",
		password:  "secret1",
		icNumber:  "900101145566",
		icType:    1,
		gender:    2,
		status:    1,
		verified:  true,
	}
	req, err := createRequest(v)
	if err != nil {
		t.Fatalf("createRequest: %v", err)
	}
	if req.FirstName != "Ada" || req.Email != "ada@example.com" {
		t.Errorf("fields not trimmed: %+v", req)
	}
	if req.ICNumber != 900101145566 || req.GenderID != 2 || !req.IsVerified {
		t.Errorf("req = %+v", req)
	}
	if got := controller.ValidateUserData(req.Partial()); len(got) != 0 {
		t.Errorf("violations = %v, want none", got)
	}
}

func TestCreateRequestBadICNumber(t *testing.T) {
	_, err := createRequest(userFormValues{icNumber: "12ab"})
	if err == nil || err.Error() != controller.MsgInvalidICNumber {
		t.Errorf("err = %v, want %q", err, controller.MsgInvalidICNumber)
	}
}

func TestUpdateRequestOnlyChangedFields(t *testing.T) {
	orig := sampleUsers(1)[0]
	orig.ICNumber = 900101145566
	v := *valuesFromUser(&orig)
	v.lastName = "Byron"
	v.verified = !orig.IsVerified

	req, err := updateRequest(v, orig)
	if err != nil {
		t.Fatalf("updateRequest: %v", err)
	}
	if got, ok := req.LastName.Get(); !ok || got != "Byron" {
		t.Errorf("LastName = %q, %v", got, ok)
	}
	if !req.IsVerified.Present() {
		t.Error("IsVerified should be sent")
	}
	for name, present := range map[string]bool{
		"FirstName": req.FirstName.Present(),
		"Email":     req.Email.Present(),
		"Password":  req.Password.Present(),
		"ICNumber":  req.ICNumber.Present(),
		"GenderID":  req.GenderID.Present(),
	} {
		if present {
			t.Errorf("%s should be omitted when unchanged", name)
		}
	}
}

func TestUpdateRequestPassword(t *testing.T) {
	orig := sampleUsers(1)[0]
	v := *valuesFromUser(&orig)
	v.password = "newpass"
	req, err := updateRequest(v, orig)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := req.Password.Get(); got != "newpass" {
		t.Errorf("Password = %q", got)
	}
}

func TestValuesFromUserDefaults(t *testing.T) {
	v := valuesFromUser(nil)
	if v.gender != domain.GenderOptions[0].Value || v.icType != domain.ICTypeOptions[0].Value {
		t.Errorf("defaults = %+v", v)
	}
}

func TestFieldValidators(t *testing.T) {
	if err := validateICField("123"); err == nil {
		t.Error("short IC number should fail")
	}
	if err := validateICField("100000000000"); err != nil {
		t.Errorf("minimum IC number: %v", err)
	}
	if err := validateEmailField("nope"); err == nil {
		t.Error("invalid email should fail")
	}
	if err := requireText("x")(" "); err == nil {
		t.Error("blank text should fail")
	}
}

func TestFormEscCloses(t *testing.T) {
	env := newTestEnv(t)
	m := newFormModel(env.deps.Users, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a close command")
	}
	if msg, ok := cmd().(formClosedMsg); !ok || msg.saved {
		t.Errorf("msg = %#v, want unsaved formClosedMsg", msg)
	}
}

func TestFormSavedClosesAsSaved(t *testing.T) {
	env := newTestEnv(t)
	u := sampleUsers(1)[0]
	m := newFormModel(env.deps.Users, &u)
	if !strings.Contains(m.View(), "Edit Ada Tester") {
		t.Error("edit form should name the user")
	}
	_, cmd := m.Update(userSavedMsg{user: &u})
	if msg, ok := cmd().(formClosedMsg); !ok || !msg.saved {
		t.Errorf("msg = %#v, want saved formClosedMsg", msg)
	}
}

func TestFormSaveErrorShowsViolations(t *testing.T) {
	env := newTestEnv(t)
	m := newFormModel(env.deps.Users, nil)
	m.submitting = true

	vErr := &controller.ValidationError{Violations: []string{controller.MsgInvalidEmail}}
	m, _ = m.Update(userSavedMsg{err: vErr})
	if m.submitting {
		t.Error("submitting should be cleared")
	}
	if len(m.errs) != 1 || m.errs[0] != controller.MsgInvalidEmail {
		t.Errorf("errs = %v", m.errs)
	}

	m, _ = m.Update(userSavedMsg{err: errors.New("HTTP 409: taken")})
	if !strings.Contains(m.View(), "taken") {
		t.Error("backend error should be shown")
	}
}
