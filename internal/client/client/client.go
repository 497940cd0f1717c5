package client

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/client/models"
)

// Client is the transport-agnostic contract of the identity provider API.
type Client interface {
	CreateAccount(ctx context.Context, email, password string) (*models.Account, error)
	Authenticate(ctx context.Context, email, password string) (*models.AuthResult, error)
	GetProfile(ctx context.Context, token string) (map[string]any, error)
	Ping(ctx context.Context) error
	Close() error
}
