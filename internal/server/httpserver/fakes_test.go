package httpserver

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
)

// fakeProvider resolves tokens from a fixed table and records every call.
type fakeProvider struct {
	mu     sync.Mutex
	tokens map[string]*models.Identity
	delay  time.Duration
	calls  []string

	createUser func(email, password string) (*models.User, error)
	signIn     func(email, password string) (*models.AuthSession, *models.User, error)
	refresh    func(token string) (*models.AuthSession, *models.User, error)
}

func (f *fakeProvider) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeProvider) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeProvider) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	f.record("create:" + email)
	return f.createUser(email, password)
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*models.AuthSession, *models.User, error) {
	f.record("signin:" + email)
	return f.signIn(email, password)
}

func (f *fakeProvider) Refresh(ctx context.Context, token string) (*models.AuthSession, *models.User, error) {
	f.record("refresh:" + token)
	return f.refresh(token)
}

func (f *fakeProvider) ResolveToken(ctx context.Context, token string) (*models.Identity, error) {
	f.record("resolve:" + token)
	if f.delay > 0 {
		// Deliberately ignores ctx.
		time.Sleep(f.delay)
	}
	id, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	return id, nil
}

type fakeProfiles struct {
	rows map[string]*models.Profile
	err  error
	seen []*models.Identity
}

func (f *fakeProfiles) Get(ctx context.Context, id *models.Identity) (*models.Profile, error) {
	f.seen = append(f.seen, id)
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.rows[id.ID]
	if !ok {
		return nil, services.ErrProfileNotFound
	}
	return p, nil
}

// countingRecorder is a metrics.Recorder for assertions.
type countingRecorder struct {
	mu     sync.Mutex
	gate   map[string]int
	auth   map[string]int
	status map[int]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{gate: map[string]int{}, auth: map[string]int{}, status: map[int]int{}}
}

func (c *countingRecorder) RecordGate(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gate[outcome]++
}

func (c *countingRecorder) RecordAuthAttempt(op string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ok {
		c.auth[op+":ok"]++
	} else {
		c.auth[op+":fail"]++
	}
}

func (c *countingRecorder) RecordHTTPStatus(code int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status[code]++
}
