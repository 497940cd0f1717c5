package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/identity"
	"github.com/dmitrijs2005/authkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

const (
	msgMissingToken = "Missing token"
	msgInvalidToken = "Invalid token"
)

// bearerToken extracts the token of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively. Anything else yields
// common.ErrMissingToken.
func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get(common.AuthorizationHeaderName)
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", common.ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", common.ErrMissingToken
	}
	return token, nil
}

// RequireAuth lets a request through only when its bearer token resolves
// to an identity within timeout. The identity is attached to the request
// context; nothing past this middleware looks at the token again.
func RequireAuth(resolver identity.TokenResolver, timeout time.Duration, logger logging.Logger, rec metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := bearerToken(r)
			if err != nil {
				logger.Debug(ctx, "token rejected", "error", err)
				rec.RecordGate(metrics.GateMissingToken)
				writeError(ctx, logger, w, http.StatusUnauthorized, msgMissingToken)
				return
			}

			id, err := resolveWithin(ctx, resolver, token, timeout)
			if err != nil {
				logger.Debug(ctx, "token rejected", "error", err)
				rec.RecordGate(metrics.GateInvalidToken)
				writeError(ctx, logger, w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			rec.RecordGate(metrics.GateAllowed)
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, id)))
		})
	}
}

// resolveWithin gives up after timeout even if the resolver ignores ctx.
func resolveWithin(ctx context.Context, resolver identity.TokenResolver, token string, timeout time.Duration) (*models.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		id  *models.Identity
		err error
	}
	ch := make(chan result, 1)
	go func() {
		id, err := resolver.ResolveToken(ctx, token)
		ch <- result{id, err}
	}()

	select {
	case res := <-ch:
		if res.err == nil && res.id == nil {
			return nil, common.ErrInvalidToken
		}
		return res.id, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
