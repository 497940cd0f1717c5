// Package models defines client-side data models used by the AuthKeeper CLI.
package models

// Account is what the identity provider returns after creating a user.
type Account struct {
	UserID string
	Email  string
}

// AuthResult is a successful authentication: a bearer token plus the user it
// belongs to.
type AuthResult struct {
	Token        string
	RefreshToken string
	UserID       string
	Email        string
}
