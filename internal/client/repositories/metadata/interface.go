// Package metadata is the client-side key/value table. The session store
// keeps the bearer token and email in it.
package metadata

import "context"

// Repository reads and writes raw values by key. An absent key is simply
// left out of GetMany's result, and deleting it is not an error.
type Repository interface {
	GetMany(ctx context.Context, keys ...string) (map[string][]byte, error)
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}
