package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/identity"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
)

// ProfileGetter is the part of services.ProfileService the handlers use.
type ProfileGetter interface {
	Get(ctx context.Context, id *models.Identity) (*models.Profile, error)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type userPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionPayload struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
}

type profilePayload struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type signupResponse struct {
	User userPayload `json:"user"`
}

type sessionResponse struct {
	Session sessionPayload `json:"session"`
	User    userPayload    `json:"user"`
}

type profileResponse struct {
	Profile profilePayload `json:"profile"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toSessionPayload(s *models.AuthSession, now time.Time) sessionPayload {
	expiresIn := int64(s.ExpiresAt.Sub(now).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return sessionPayload{
		AccessToken:  s.AccessToken,
		TokenType:    "bearer",
		ExpiresIn:    expiresIn,
		ExpiresAt:    s.ExpiresAt.Unix(),
		RefreshToken: s.RefreshToken,
	}
}

const msgInvalidBody = "invalid request body"

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, s.logger, w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := s.provider.CreateUser(ctx, req.Email, req.Password)
	s.metrics.RecordAuthAttempt("signup", err == nil)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUserExists), errors.Is(err, identity.ErrInvalidCredentials):
			writeError(ctx, s.logger, w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error(ctx, "signup failed", "error", err)
			writeError(ctx, s.logger, w, http.StatusBadRequest, "signup failed")
		}
		return
	}

	writeJSON(ctx, s.logger, w, http.StatusOK, signupResponse{User: toUserPayload(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, s.logger, w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	session, user, err := s.provider.SignIn(ctx, req.Email, req.Password)
	s.metrics.RecordAuthAttempt("login", err == nil)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidLogin) {
			writeError(ctx, s.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error(ctx, "login failed", "error", err)
		writeError(ctx, s.logger, w, http.StatusBadRequest, "login failed")
		return
	}

	writeJSON(ctx, s.logger, w, http.StatusOK, sessionResponse{
		Session: toSessionPayload(session, s.now()),
		User:    toUserPayload(user),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, s.logger, w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	session, user, err := s.provider.Refresh(ctx, req.RefreshToken)
	s.metrics.RecordAuthAttempt("refresh", err == nil)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidRefreshToken), errors.Is(err, common.ErrRefreshTokenExpired):
			writeError(ctx, s.logger, w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error(ctx, "refresh failed", "error", err)
			writeError(ctx, s.logger, w, http.StatusBadRequest, "refresh failed")
		}
		return
	}

	writeJSON(ctx, s.logger, w, http.StatusOK, sessionResponse{
		Session: toSessionPayload(session, s.now()),
		User:    toUserPayload(user),
	})
}

// handleProfile only runs behind RequireAuth.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := IdentityFromContext(ctx)
	if !ok {
		writeError(ctx, s.logger, w, http.StatusUnauthorized, msgInvalidToken)
		return
	}

	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		msg := services.ErrProfileUnavailable.Error()
		if errors.Is(err, services.ErrProfileNotFound) {
			msg = services.ErrProfileNotFound.Error()
		}
		writeError(ctx, s.logger, w, http.StatusBadRequest, msg)
		return
	}

	writeJSON(ctx, s.logger, w, http.StatusOK, profileResponse{Profile: profilePayload{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), s.logger, w, http.StatusOK, map[string]string{"status": "OK"})
}
