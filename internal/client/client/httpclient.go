package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/client/models"
	"github.com/dmitrijs2005/authkeeper/internal/common"
)

const (
	signupPath  = "/auth/signup"
	loginPath   = "/auth/login"
	profilePath = "/profile"
	pingPath    = "/ping"

	// error bodies larger than this are not worth decoding
	maxErrorBody = 64 << 10
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type signupResponse struct {
	User *userPayload `json:"user"`
}

type loginResponse struct {
	Session *sessionPayload `json:"session"`
	User    *userPayload    `json:"user"`
}

type profileResponse struct {
	Profile map[string]any `json:"profile"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the server at baseURL
// (e.g. "http://127.0.0.1:8080"). timeout bounds every request.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) CreateAccount(ctx context.Context, email, password string) (*models.Account, error) {
	var resp signupResponse
	err := c.do(ctx, http.MethodPost, signupPath, "", credentialsRequest{Email: email, Password: password}, &resp, "registration failed")
	if err != nil {
		return nil, err
	}
	if resp.User == nil || resp.User.ID == "" {
		return nil, ErrMalformedResponse
	}
	return &models.Account{UserID: resp.User.ID, Email: resp.User.Email}, nil
}

func (c *HTTPClient) Authenticate(ctx context.Context, email, password string) (*models.AuthResult, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, loginPath, "", credentialsRequest{Email: email, Password: password}, &resp, "login failed")
	if err != nil {
		return nil, err
	}
	if resp.Session == nil || resp.Session.AccessToken == "" || resp.User == nil {
		return nil, ErrMalformedResponse
	}
	return &models.AuthResult{
		Token:        resp.Session.AccessToken,
		RefreshToken: resp.Session.RefreshToken,
		UserID:       resp.User.ID,
		Email:        resp.User.Email,
	}, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, token string) (map[string]any, error) {
	var resp profileResponse
	if err := c.do(ctx, http.MethodGet, profilePath, token, nil, &resp, "profile request failed"); err != nil {
		return nil, err
	}
	if resp.Profile == nil {
		return nil, ErrMalformedResponse
	}
	return resp.Profile, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, pingPath, "", nil, nil, "ping failed")
}

// Close releases idle keep-alive connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do sends one request and decodes a 2xx body into out (if non-nil).
// fallback is the message used for a JSON error body without a message.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any, fallback string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, fallback)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ErrMalformedResponse
	}
	return nil
}

// decodeError turns a non-2xx response into a *ProviderError.
func decodeError(resp *http.Response, fallback string) error {
	statusText := http.StatusText(resp.StatusCode)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return newStatusError(resp.StatusCode, statusText)
	}

	var e errorResponse
	if err := json.Unmarshal(raw, &e); err != nil {
		return newStatusError(resp.StatusCode, statusText)
	}

	msg := e.Error
	if msg == "" {
		msg = e.Message
	}
	if msg == "" {
		msg = fallback
	}
	return &ProviderError{Status: resp.StatusCode, Message: msg}
}
