package sessionstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/authkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// MetadataStore keeps the session in the SQLite metadata table.
type MetadataStore struct {
	db *sql.DB
	// repo binds the key/value repository to the db or to a transaction.
	repo func(dbx.DBTX) metadata.Repository
}

func NewMetadataStore(db *sql.DB) *MetadataStore {
	return &MetadataStore{
		db: db,
		repo: func(q dbx.DBTX) metadata.Repository {
			return metadata.NewSQLiteRepository(q)
		},
	}
}

// RunMigrations applies the embedded client schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// OpenSQLite opens (creating if needed) the SQLite file at dsn and migrates it.
func OpenSQLite(ctx context.Context, dsn string) (*MetadataStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serializes writers anyway
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return NewMetadataStore(db), nil
}

func (s *MetadataStore) Load(ctx context.Context) (string, string, error) {
	values, err := s.repo(s.db).GetMany(ctx, common.SessionTokenKey, common.SessionEmailKey)
	if err != nil {
		return "", "", err
	}
	return string(values[common.SessionTokenKey]), string(values[common.SessionEmailKey]), nil
}

// Save writes both keys in one transaction.
func (s *MetadataStore) Save(ctx context.Context, token, email string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).SetMany(ctx, map[string][]byte{
			common.SessionTokenKey: []byte(token),
			common.SessionEmailKey: []byte(email),
		})
	})
}

func (s *MetadataStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).Delete(ctx, common.SessionTokenKey, common.SessionEmailKey)
	})
}

func (s *MetadataStore) Close() error {
	return s.db.Close()
}
