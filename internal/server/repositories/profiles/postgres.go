package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, display_name, avatar_key)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	avatar := sql.NullString{String: p.AvatarKey, Valid: p.AvatarKey != ""}
	if err := r.db.QueryRowContext(ctx, query, p.ID, p.Email, p.DisplayName, avatar).
		Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT id, email, display_name, avatar_key, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	p := &models.Profile{}
	var avatar sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.ID, &p.Email, &p.DisplayName, &avatar, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.AvatarKey = avatar.String
	return p, nil
}
