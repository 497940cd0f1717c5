package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
	"github.com/dmitrijs2005/authkeeper/internal/client/services"
	"github.com/dmitrijs2005/authkeeper/internal/client/sessionstore"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, dir string) sessionstore.Store {
	t.Helper()
	s, err := sessionstore.Open(context.Background(), sessionstore.BackendBolt, dir)
	require.NoError(t, err)
	return s
}

func simulatedApp(t *testing.T, dir, script string) (*App, *bytes.Buffer) {
	t.Helper()
	stubTerminal(t, false, "", nil)

	store := openStore(t, dir)
	logger := logging.NewDiscardLogger()
	session := services.NewSessionController(services.NewSimulatedBackend(), store, logger)

	var out bytes.Buffer
	return newApp(session, nil, store, config.ModeSimulated, logger, strings.NewReader(script), &out), &out
}

func TestApp_RegisterPersistsAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	app, out := simulatedApp(t, dir, "register\na@b.com\nsecret1\nsecret1\nstatus\nexit\n")
	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "Registered and signed in as a@b.com")
	assert.Contains(t, out.String(), "Status: signed in")

	// second run starts signed in without any command
	app, out = simulatedApp(t, dir, "status\nexit\n")
	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "authkeeper (a@b.com)> ")
	assert.Contains(t, out.String(), "Email:  a@b.com")
}

func TestApp_ValidationErrorIsShown(t *testing.T) {
	app, out := simulatedApp(t, t.TempDir(), "register\na@b.com\nabcdef\nabcxyz\nstatus\nexit\n")
	require.NoError(t, app.Run(context.Background()))

	assert.Contains(t, out.String(), "Registration failed: Passwords do not match")
	assert.Contains(t, out.String(), "Status: signed out")
	assert.Contains(t, out.String(), "Last error: Passwords do not match")
}

func TestApp_LoginLogout(t *testing.T) {
	dir := t.TempDir()
	app, out := simulatedApp(t, dir, "login\nu@x.io\nsecret1\nlogout\nstatus\nexit\n")
	require.NoError(t, app.Run(context.Background()))

	assert.Contains(t, out.String(), "Signed in as u@x.io")
	assert.Contains(t, out.String(), "Signed out")

	store := openStore(t, dir)
	defer store.Close()
	token, email, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, email)
}

func TestApp_ProfileNeedsLiveMode(t *testing.T) {
	app, out := simulatedApp(t, t.TempDir(), "profile\nexit\n")
	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "Profile is only available in live mode")
}

func TestApp_LiveLoginAndProfile(t *testing.T) {
	stubTerminal(t, false, "", nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"session": map[string]any{"access_token": "jwt-live"},
			"user":    map[string]any{"id": "u1", "email": "live@x.io"},
		})
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer jwt-live" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid token"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"profile": map[string]any{"id": "u1", "display_name": "Live"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store, err := sessionstore.Open(context.Background(), sessionstore.BackendSQLite, filepath.Join(t.TempDir(), "s"))
	require.NoError(t, err)

	api := client.NewHTTPClient(srv.URL, time.Second)
	logger := logging.NewDiscardLogger()
	session := services.NewSessionController(services.NewLiveBackend(api), store, logger)

	var out bytes.Buffer
	script := "profile\nlogin\nlive@x.io\nsecret1\nprofile\nexit\n"
	app := newApp(session, api, store, config.ModeLive, logger, strings.NewReader(script), &out)
	require.NoError(t, app.Run(context.Background()))

	assert.Contains(t, out.String(), "Log in first")
	assert.Contains(t, out.String(), "Signed in as live@x.io")
	assert.Contains(t, out.String(), "display_name: Live")
}

func TestApp_ProfileRejectedToken(t *testing.T) {
	stubTerminal(t, false, "", nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid token"})
	}))
	defer srv.Close()

	dir := t.TempDir()
	seed := openStore(t, dir)
	require.NoError(t, seed.Save(context.Background(), "stale", "s@x.io"))
	require.NoError(t, seed.Close())

	store := openStore(t, dir)
	api := client.NewHTTPClient(srv.URL, time.Second)
	logger := logging.NewDiscardLogger()
	session := services.NewSessionController(services.NewLiveBackend(api), store, logger)

	var out bytes.Buffer
	app := newApp(session, api, store, config.ModeLive, logger, strings.NewReader("profile\nexit\n"), &out)
	require.NoError(t, app.Run(context.Background()))

	assert.Contains(t, out.String(), "Profile request failed: Invalid token")
	assert.Contains(t, out.String(), "no longer valid")
}

func TestNewApp_Simulated(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoreDir = t.TempDir()
	cfg.StoreBackend = config.StoreBolt

	app, err := NewApp(context.Background(), cfg, logging.NewDiscardLogger())
	require.NoError(t, err)
	assert.Nil(t, app.api)
	require.NoError(t, app.Close())
}

func TestNewApp_BadStore(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoreDir = t.TempDir()
	cfg.StoreBackend = "redis"

	_, err := NewApp(context.Background(), cfg, logging.NewDiscardLogger())
	require.Error(t, err)
}
