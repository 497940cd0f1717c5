package metadata

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/dbx"
)

var _ Repository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository works over a *sql.DB or, for atomic multi-key
// writes, a *sql.Tx.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetMany returns the values of those keys that are present.
func (r *SQLiteRepository) GetMany(ctx context.Context, keys ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	in, args := inClause(keys)
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM metadata WHERE key IN (`+in+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("metadata get %v: %w", keys, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			k string
			v []byte
		)
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("metadata scan: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("metadata rows: %w", err)
	}
	return out, nil
}

// SetMany upserts every pair. Run it on a transaction to make the write
// all-or-nothing.
func (r *SQLiteRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO metadata (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, values[k])
		if err != nil {
			return fmt.Errorf("metadata set %q: %w", k, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	in, args := inClause(keys)
	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key IN (`+in+`)`, args...); err != nil {
		return fmt.Errorf("metadata delete %v: %w", keys, err)
	}
	return nil
}

func inClause(keys []string) (string, []any) {
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(keys)), ","), args
}
