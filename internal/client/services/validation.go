package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const minPasswordLength = 6

// emailPattern checks the local@domain.tld shape. RE2's \s is ASCII-only,
// so validEmail also rejects any Unicode white space.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(email string) bool {
	return strings.IndexFunc(email, unicode.IsSpace) < 0 && emailPattern.MatchString(email)
}

// ValidationError is a credential check that failed before any I/O.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validateLogin(email, password string) error {
	switch {
	case email == "":
		return &ValidationError{Field: "email", Message: "Email and password are required"}
	case password == "":
		return &ValidationError{Field: "password", Message: "Email and password are required"}
	}
	return validateCredentials(email, password)
}

// validateRegistration checks, in order and stopping at the first failure:
// all fields present, email shape, password length, confirmation match.
func validateRegistration(email, password, confirm string) error {
	switch {
	case email == "":
		return &ValidationError{Field: "email", Message: "All fields are required"}
	case password == "":
		return &ValidationError{Field: "password", Message: "All fields are required"}
	case confirm == "":
		return &ValidationError{Field: "confirm", Message: "All fields are required"}
	}
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	if password != confirm {
		return &ValidationError{Field: "confirm", Message: "Passwords do not match"}
	}
	return nil
}

func validateCredentials(email, password string) error {
	if !validEmail(email) {
		return &ValidationError{Field: "email", Message: "Invalid email format"}
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}
	return nil
}
