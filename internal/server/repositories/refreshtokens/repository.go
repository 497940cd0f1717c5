// Package refreshtokens stores the opaque refresh tokens handed out next to
// access tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, expiring validity from now.
	Create(ctx context.Context, userID, token string, validity time.Duration) error

	// Consume deletes token and returns the row it held, so each refresh
	// token can be used once even under concurrent requests. An unknown
	// token yields common.ErrorNotFound.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)
}
