package models

import "time"

// User is an account of the built-in identity provider.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Identity is what a resolved bearer token stands for. It lives for one
// request.
type Identity struct {
	ID    string
	Email string
}
