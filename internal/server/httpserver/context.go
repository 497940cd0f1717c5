package httpserver

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

type contextKey string

const (
	identityKey    contextKey = "identity"
	requestInfoKey contextKey = "request_info"
)

// requestInfo is placed in the context by the logging middleware so that
// inner layers can report back who the request was for.
type requestInfo struct {
	userID string
}

// ContextWithIdentity attaches the caller's identity. Handlers behind the
// gate read it with IdentityFromContext and trust it as-is.
func ContextWithIdentity(ctx context.Context, id *models.Identity) context.Context {
	if info, ok := ctx.Value(requestInfoKey).(*requestInfo); ok && id != nil {
		info.userID = id.ID
	}
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*models.Identity)
	return id, ok && id != nil
}
