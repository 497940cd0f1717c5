// Package sessionstore persists the client's signed-in state (bearer token and
// email) across process restarts.
//
// Two backends exist, selected once from configuration:
//
//   - sqlite: the metadata key/value table in a local SQLite file
//   - bolt:   a single bucket in a bolt database file
//
// Both write and delete the two keys in one transaction, so a reader never
// sees a token without its email or the other way round.
package sessionstore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/authkeeper/internal/filex"
)

// Store is the local persistence contract used by the session controller.
type Store interface {
	// Load returns the persisted token and email. A missing key yields an
	// empty string, not an error; err is reserved for read failures.
	Load(ctx context.Context) (token, email string, err error)
	// Save writes both keys.
	Save(ctx context.Context, token, email string) error
	// Clear deletes both keys. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"

	sqliteFileName = "session.db"
	boltFileName   = "session.bolt"
)

// Open creates dir if needed and opens the store of the requested backend
// inside it.
func Open(ctx context.Context, backend, dir string) (Store, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("store dir: %w", err)
	}

	switch backend {
	case BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(dir, sqliteFileName))
	case BackendBolt:
		return OpenBolt(filepath.Join(dir, boltFileName))
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
