package controller

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/naveenspark/mbadmin/pkg/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinICNumber is the smallest accepted identity card number.
const MinICNumber = 100000000000

// Violation messages.
const (
	MsgFirstNameRequired = "First name is required"
	MsgLastNameRequired  = "Last name is required"
	MsgInvalidEmail      = "Invalid email address"
	MsgPasswordTooShort  = "Password must be at least 6 characters"
	MsgPasswordRequired  = "Password is required"
	MsgInvalidICNumber   = "Invalid IC number"
)

// ValidateUserData checks only the fields that are present and returns one
// message per violation, in field order.
func ValidateUserData(u domain.UpdateUserRequest) []string {
	var violations []string
	if v, ok := u.FirstName.Get(); ok && strings.TrimSpace(v) == "" {
		violations = append(violations, MsgFirstNameRequired)
	}
	if v, ok := u.LastName.Get(); ok && strings.TrimSpace(v) == "" {
		violations = append(violations, MsgLastNameRequired)
	}
	if v, ok := u.Email.Get(); ok && !ValidEmail(v) {
		violations = append(violations, MsgInvalidEmail)
	}
	if v, ok := u.Password.Get(); ok && utf8.RuneCountInString(v) < 6 {
		violations = append(violations, MsgPasswordTooShort)
	}
	if v, ok := u.ICNumber.Get(); ok && v < MinICNumber {
		violations = append(violations, MsgInvalidICNumber)
	}
	return violations
}

// ValidateLogin checks the login form.
func ValidateLogin(email, password string) []string {
	var violations []string
	if !ValidEmail(email) {
		violations = append(violations, MsgInvalidEmail)
	}
	if password == "" {
		violations = append(violations, MsgPasswordRequired)
	}
	return violations
}

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
