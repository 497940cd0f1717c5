// Package httpserver is the server's JSON-over-HTTP surface: the auth
// endpoints, the bearer-token gate and the profile endpoint behind it.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/identity"
	"github.com/dmitrijs2005/authkeeper/internal/server/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 5 * time.Second

// Deps are the collaborators of a Server. Gatherer may be nil, in which
// case /metrics is not mounted.
type Deps struct {
	Provider        identity.Provider
	Profiles        ProfileGetter
	Metrics         metrics.Recorder
	Gatherer        prometheus.Gatherer
	ProviderTimeout time.Duration
	Logger          logging.Logger
}

type Server struct {
	address         string
	provider        identity.Provider
	profiles        ProfileGetter
	metrics         metrics.Recorder
	gatherer        prometheus.Gatherer
	providerTimeout time.Duration
	logger          logging.Logger
	now             func() time.Time
}

func New(address string, d Deps) *Server {
	m := d.Metrics
	if m == nil {
		m = metrics.Nop{}
	}
	return &Server{
		address:         address,
		provider:        d.Provider,
		profiles:        d.Profiles,
		metrics:         m,
		gatherer:        d.Gatherer,
		providerTimeout: d.ProviderTimeout,
		logger:          d.Logger.With("module", "http_server"),
		now:             time.Now,
	}
}

// Handler builds the router. Middleware order: recovery, logging, metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware(s.logger))
	r.Use(loggingMiddleware(s.logger))
	r.Use(metricsMiddleware(s.metrics))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(s.provider, s.providerTimeout, s.logger, s.metrics))
		r.Get("/profile", s.handleProfile)
	})

	r.Get("/ping", s.handlePing)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(s.gatherer))
	}
	return r
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			s.logger.Error(sctx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
