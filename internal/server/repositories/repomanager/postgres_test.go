package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/authkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string) error) {
	t.Helper()
	orig := gooseUp
	gooseUp = fn
	t.Cleanup(func() { gooseUp = orig })
}

func TestFactories(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var m RepositoryManager = NewPostgresRepositoryManager()

	assert.IsType(t, &users.PostgresRepository{}, m.Users(db))
	assert.IsType(t, &refreshtokens.PostgresRepository{}, m.RefreshTokens(db))
	assert.IsType(t, &profiles.PostgresRepository{}, m.Profiles(db))
}

func TestRunMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var gotDir string
	stubGoose(t, func(ctx context.Context, _ *sql.DB, dir string) error {
		gotDir = dir
		return nil
	})

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)
}

func TestRunMigrations_Error(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stubGoose(t, func(context.Context, *sql.DB, string) error { return errors.New("boom") })

	err = NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate: boom")
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(migrations.Migrations, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"00001_create_users.sql",
		"00002_create_refresh_tokens.sql",
		"00003_create_profiles.sql",
	}, names)
}

func TestOpenPostgres_Unreachable(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	require.Error(t, err)
}
