package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/google/uuid"
)

// Backend issues bearer tokens. The controller is given exactly one at
// construction and never decides between them itself.
type Backend interface {
	SignIn(ctx context.Context, email, password string) (token string, err error)
	SignUp(ctx context.Context, email, password string) (token string, err error)
}

// SimulatedBackend is a stand-in identity provider that never touches the
// network and accepts any credentials that passed validation.
type SimulatedBackend struct {
	now func() time.Time
}

func NewSimulatedBackend() *SimulatedBackend {
	return &SimulatedBackend{now: time.Now}
}

func (b *SimulatedBackend) SignIn(ctx context.Context, email, password string) (string, error) {
	return b.newToken(), nil
}

func (b *SimulatedBackend) SignUp(ctx context.Context, email, password string) (string, error) {
	return b.newToken(), nil
}

// newToken is unique per call even within one millisecond.
func (b *SimulatedBackend) newToken() string {
	return fmt.Sprintf("mock-token-%d-%s", b.now().UnixMilli(), uuid.NewString())
}

// LiveBackend delegates to the remote identity provider.
type LiveBackend struct {
	client client.Client
}

func NewLiveBackend(c client.Client) *LiveBackend {
	return &LiveBackend{client: c}
}

func (b *LiveBackend) SignIn(ctx context.Context, email, password string) (string, error) {
	res, err := b.client.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	return res.Token, nil
}

// SignUp creates the account and then signs in with the same credentials,
// because the signup endpoint does not issue a token.
func (b *LiveBackend) SignUp(ctx context.Context, email, password string) (string, error) {
	if _, err := b.client.CreateAccount(ctx, email, password); err != nil {
		return "", err
	}
	return b.SignIn(ctx, email, password)
}
