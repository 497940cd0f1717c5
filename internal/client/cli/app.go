package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
	"github.com/dmitrijs2005/authkeeper/internal/client/services"
	"github.com/dmitrijs2005/authkeeper/internal/client/sessionstore"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

const pingTimeout = 3 * time.Second

type App struct {
	session *services.SessionController
	// nil in simulated mode
	api    client.Client
	store  sessionstore.Store
	mode   string
	logger logging.Logger

	in  *bufio.Reader
	out io.Writer
}

// NewApp opens the session store and binds the controller to the backend
// chosen by cfg.Mode.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	store, err := sessionstore.Open(ctx, cfg.StoreBackend, cfg.StoreDir)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	var (
		backend services.Backend
		api     client.Client
	)
	switch cfg.Mode {
	case config.ModeLive:
		api = client.NewHTTPClient(cfg.ServerEndpointAddr, cfg.RequestTimeout)
		backend = services.NewLiveBackend(api)
	default:
		backend = services.NewSimulatedBackend()
	}

	session := services.NewSessionController(backend, store, logger)
	return newApp(session, api, store, cfg.Mode, logger, os.Stdin, os.Stdout), nil
}

func newApp(session *services.SessionController, api client.Client, store sessionstore.Store,
	mode string, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		session: session,
		api:     api,
		store:   store,
		mode:    mode,
		logger:  logger,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run restores the stored session and then serves the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.session.Restore(ctx); err != nil {
		fmt.Fprintln(a.out, "Could not read the saved session, starting signed out.")
	}

	updates, unsubscribe := a.session.Subscribe()
	defer unsubscribe()
	go a.watchSession(ctx, updates)

	if a.api != nil {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		if err := a.api.Ping(pctx); err != nil {
			a.logger.Warn(ctx, "server is not reachable", "error", err)
		}
		cancel()
	}

	fmt.Fprintf(a.out, "AuthKeeper CLI, %s mode (type 'help' for commands)\n", a.mode)
	runREPL(ctx, a, a.prompt, a.in, a.out)
	return nil
}

// watchSession logs status transitions until updates is closed.
func (a *App) watchSession(ctx context.Context, updates <-chan services.Session) {
	last := services.StatusRestoring
	for s := range updates {
		if s.Status != last {
			a.logger.Debug(ctx, "session status changed", "from", last.String(), "to", s.Status.String())
			last = s.Status
		}
	}
}

func (a *App) prompt() string {
	s := a.session.Snapshot()
	if s.Status == services.StatusSignedIn {
		return fmt.Sprintf("authkeeper (%s)> ", s.Email)
	}
	return "authkeeper> "
}

func (a *App) signedIn() bool {
	return a.session.Snapshot().Status == services.StatusSignedIn
}

// Close releases the store and the HTTP client.
func (a *App) Close() error {
	if a.api != nil {
		_ = a.api.Close()
	}
	return a.store.Close()
}
