// Package identity is the server's built-in identity provider: accounts,
// password checks and the issuing and resolving of bearer tokens.
package identity

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

var (
	ErrUserExists          = errors.New("user already registered")
	ErrInvalidCredentials  = errors.New("email and password are required")
	ErrInvalidLogin        = errors.New("invalid login credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// Provider is everything the HTTP layer needs from an identity provider.
type Provider interface {
	CreateUser(ctx context.Context, email, password string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*models.AuthSession, *models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthSession, *models.User, error)
	TokenResolver
}

// TokenResolver maps a bearer token to the identity it was issued for.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.Identity, error)
}
