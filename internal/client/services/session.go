// Package services contains application services for the AuthKeeper client.
// This file defines the session controller: the single owner of the client's
// signed-in state, which restores, establishes and tears it down.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/authkeeper/internal/client/sessionstore"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

// Status is the coarse lifecycle state of a Session.
type Status int

const (
	StatusRestoring Status = iota
	StatusSignedOut
	StatusSignedIn
)

func (s Status) String() string {
	switch s {
	case StatusRestoring:
		return "restoring"
	case StatusSignedOut:
		return "signed out"
	case StatusSignedIn:
		return "signed in"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Session is the client's view of the current user. Token and Email are
// either both set (Status == StatusSignedIn) or both empty.
type Session struct {
	Token     string
	Email     string
	Status    Status
	LastError string
}

// SessionController owns the Session. It is the only writer; any number of
// readers may call Snapshot or Subscribe.
//
// Restore, Login, Register and Logout are serialized: a call that overlaps
// another waits for it to finish before it starts.
type SessionController struct {
	backend Backend
	store   sessionstore.Store
	logger  logging.Logger

	// held for the whole of one operation
	opMu sync.Mutex

	mu      sync.Mutex
	state   Session
	subs    map[int]chan Session
	nextSub int
}

// NewSessionController binds a controller to exactly one backend and one
// store. The session starts in StatusRestoring.
func NewSessionController(backend Backend, store sessionstore.Store, logger logging.Logger) *SessionController {
	return &SessionController{
		backend: backend,
		store:   store,
		logger:  logger.With("module", "session"),
		state:   Session{Status: StatusRestoring},
		subs:    make(map[int]chan Session),
	}
}

// Snapshot returns a copy of the session as of the last completed operation.
func (c *SessionController) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel that receives the current session immediately
// and then every new one. A slow reader only ever sees the latest value.
// The returned func unsubscribes and closes the channel.
func (c *SessionController) Subscribe() (<-chan Session, func()) {
	ch := make(chan Session, 1)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

func (c *SessionController) publish(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = s
	for _, ch := range c.subs {
		// drop the stale value, if any, so the send never blocks
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

// Restore loads the persisted session. Both keys present means signed in;
// anything else, including a read error, means signed out. It never talks to
// the backend. A read error is logged and returned, the state is still
// settled to StatusSignedOut.
func (c *SessionController) Restore(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	token, email, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Error(ctx, "session restore failed", "error", err)
		c.publish(Session{Status: StatusSignedOut})
		return fmt.Errorf("restore session: %w", err)
	}

	if token == "" || email == "" {
		c.publish(Session{Status: StatusSignedOut})
		return nil
	}

	c.logger.Debug(ctx, "session restored", "email", email)
	c.publish(Session{Token: token, Email: email, Status: StatusSignedIn})
	return nil
}

// Login validates the credentials, asks the backend for a token and
// persists it. On failure the error is returned and also recorded in
// Session.LastError; the status is left as it was.
func (c *SessionController) Login(ctx context.Context, email, password string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := validateLogin(email, password); err != nil {
		return c.fail(err)
	}

	token, err := c.backend.SignIn(ctx, email, password)
	if err != nil {
		c.logger.Warn(ctx, "login failed", "email", email, "error", err)
		return c.fail(err)
	}
	return c.signIn(ctx, token, email)
}

// Register is Login for a new account, with the stricter registration
// checks applied first.
func (c *SessionController) Register(ctx context.Context, email, password, confirm string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := validateRegistration(email, password, confirm); err != nil {
		return c.fail(err)
	}

	token, err := c.backend.SignUp(ctx, email, password)
	if err != nil {
		c.logger.Warn(ctx, "registration failed", "email", email, "error", err)
		return c.fail(err)
	}
	return c.signIn(ctx, token, email)
}

// Logout deletes the persisted session and signs out. A store error is
// logged and otherwise ignored: the in-memory session is cleared regardless.
func (c *SessionController) Logout(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error(ctx, "failed to clear stored session", "error", err)
	}
	c.publish(Session{Status: StatusSignedOut})
}

func (c *SessionController) signIn(ctx context.Context, token, email string) error {
	if err := c.store.Save(ctx, token, email); err != nil {
		c.logger.Error(ctx, "failed to persist session", "error", err)
		return c.fail(fmt.Errorf("save session: %w", err))
	}

	c.logger.Info(ctx, "signed in", "email", email)
	c.publish(Session{Token: token, Email: email, Status: StatusSignedIn})
	return nil
}

// fail records err as LastError without touching the rest of the session
// and hands err back for the caller to return.
func (c *SessionController) fail(err error) error {
	s := c.Snapshot()
	s.LastError = err.Error()
	c.publish(s)
	return err
}
