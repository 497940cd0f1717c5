package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/cryptox"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
)

// refreshTokenBytes is the entropy of a refresh token; its hex form is
// twice as long.
const refreshTokenBytes = 32

// LocalProvider keeps users in PostgreSQL and signs its own access tokens.
type LocalProvider struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	logger                       logging.Logger

	// decoyHash is compared against when the email is unknown, so a miss
	// costs as much as a wrong password.
	decoyHash []byte
}

func NewLocalProvider(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) (*LocalProvider, error) {
	decoy, err := cryptox.HashPassword(common.GenerateRandByteArray(16))
	if err != nil {
		return nil, fmt.Errorf("decoy hash: %w", err)
	}
	return &LocalProvider{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		logger:                       logger.With("module", "identity"),
		decoyHash:                    decoy,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers the account and its empty profile in one transaction.
func (p *LocalProvider) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := p.repomanager.Users(tx).Create(ctx, &models.User{Email: email, PasswordHash: hash})
		if err != nil {
			return err
		}
		if err := p.repomanager.Profiles(tx).Create(ctx, &models.Profile{ID: u.ID, Email: u.Email}); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	p.logger.Info(ctx, "user created", "user_id", user.ID)
	return user, nil
}

// SignIn checks the password and issues a fresh token pair.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*models.AuthSession, *models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, ErrInvalidLogin
	}

	user, err := p.repomanager.Users(p.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = cryptox.CheckPassword(p.decoyHash, []byte(password))
			return nil, nil, ErrInvalidLogin
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}
	if err := cryptox.CheckPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, nil, ErrInvalidLogin
	}

	session, err := p.issueSession(ctx, user, p.db)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// Refresh trades a refresh token for a new pair. The presented token is
// deleted whatever the outcome, including when it has expired.
func (p *LocalProvider) Refresh(ctx context.Context, refreshToken string) (*models.AuthSession, *models.User, error) {
	if refreshToken == "" {
		return nil, nil, ErrInvalidRefreshToken
	}

	var (
		session *models.AuthSession
		user    *models.User
		expired bool
	)
	err := dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rt, err := p.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			return err
		}
		if rt.ExpiredAt(time.Now()) {
			expired = true
			return nil
		}
		user, err = p.repomanager.Users(tx).GetByID(ctx, rt.UserID)
		if err != nil {
			return err
		}
		session, err = p.issueSession(ctx, user, tx)
		return err
	})
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return nil, nil, ErrInvalidRefreshToken
	case err != nil:
		return nil, nil, fmt.Errorf("refresh: %w", err)
	case expired:
		return nil, nil, common.ErrRefreshTokenExpired
	}
	return session, user, nil
}

// ResolveToken accepts only a well-signed, unexpired access token whose
// user still exists.
func (p *LocalProvider) ResolveToken(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := auth.ParseToken(token, p.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	user, err := p.repomanager.Users(p.db).GetByID(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			p.logger.Warn(ctx, "resolve token: user lookup failed", "error", err)
		}
		return nil, common.ErrInvalidToken
	}
	return &models.Identity{ID: user.ID, Email: user.Email}, nil
}

func (p *LocalProvider) issueSession(ctx context.Context, user *models.User, db dbx.DBTX) (*models.AuthSession, error) {
	access, expires, err := auth.GenerateToken(user.ID, user.Email, p.jwtSecret, p.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	refresh, err := common.MakeRandHexString(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	if err := p.repomanager.RefreshTokens(db).Create(ctx, user.ID, refresh, p.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &models.AuthSession{AccessToken: access, RefreshToken: refresh, ExpiresAt: expires}, nil
}
