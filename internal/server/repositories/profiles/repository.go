// Package profiles stores the per-user profile row. The row's id is the
// user's id; nothing else identifies a profile.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts the profile and fills in its timestamps.
	Create(ctx context.Context, p *models.Profile) error
	// Get returns the profile whose id equals userID, or common.ErrorNotFound.
	Get(ctx context.Context, userID string) (*models.Profile, error)
}
