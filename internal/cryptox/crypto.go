// Package cryptox wraps the password hashing used by the built-in identity
// provider.
package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned by CheckPassword for a wrong password.
var ErrPasswordMismatch = errors.New("password mismatch")

// PasswordCost is the bcrypt work factor. Tests lower it to bcrypt.MinCost.
var PasswordCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password.
func HashPassword(password []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, PasswordCost)
}

// CheckPassword compares password against a hash produced by HashPassword.
// Any mismatch, including a malformed hash, yields ErrPasswordMismatch.
func CheckPassword(hash, password []byte) error {
	if err := bcrypt.CompareHashAndPassword(hash, password); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
