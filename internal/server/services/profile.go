// Package services holds the server-side business logic that sits behind
// the HTTP handlers.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileUnavailable = errors.New("profile store unavailable")
)

// AvatarSigner turns an object key into a short-lived download link.
type AvatarSigner interface {
	PresignGet(ctx context.Context, key string) (string, error)
}

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	signer      AvatarSigner
	logger      logging.Logger
}

// NewProfileService returns the service; signer may be nil, in which case
// profiles never carry an avatar link.
func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, signer AvatarSigner, logger logging.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		signer:      signer,
		logger:      logger.With("module", "profiles"),
	}
}

// Get loads the profile of the authenticated caller. The identity is the
// only input; which row is read cannot be influenced by the request.
func (s *ProfileService) Get(ctx context.Context, identity *models.Identity) (*models.Profile, error) {
	if identity == nil || identity.ID == "" {
		return nil, ErrProfileNotFound
	}

	p, err := s.repomanager.Profiles(s.db).Get(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error(ctx, "profile lookup failed", "user_id", identity.ID, "error", err)
		return nil, ErrProfileUnavailable
	}

	if p.AvatarKey != "" && s.signer != nil {
		url, err := s.signer.PresignGet(ctx, p.AvatarKey)
		if err != nil {
			s.logger.Warn(ctx, "avatar link not signed", "user_id", identity.ID, "error", err)
		} else {
			p.AvatarURL = url
		}
	}
	return p, nil
}
