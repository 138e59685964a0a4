// Copyright 2025 UMH Systems GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/config"
	"github.com/worker-safety/safety-client/pkg/graphql"
	"github.com/worker-safety/safety-client/pkg/httpclient"
	"github.com/worker-safety/safety-client/pkg/latency"
	"github.com/worker-safety/safety-client/pkg/logger"
	"github.com/worker-safety/safety-client/pkg/metrics"
	"github.com/worker-safety/safety-client/pkg/rest"
)

const latencyDebugName = "graphql"

// Clients are valid for one signed-in session.
type Clients struct {
	GraphQL *graphql.Client
	REST    *rest.Client
	Session Session
}

type Manager struct {
	cfg        config.ClientConfig
	httpClient *http.Client
	reauth     ReauthFunc
	log        *zap.SugaredLogger
	now        func() time.Time

	mu         sync.Mutex
	clients    *Clients
	generation uint64
}

type Option func(*Manager)

func WithReauth(fn ReauthFunc) Option {
	return func(m *Manager) { m.reauth = fn }
}

func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.httpClient = c }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(m *Manager) { m.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(cfg config.ClientConfig, opts ...Option) *Manager {
	m := &Manager{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}

	if m.httpClient == nil {
		m.httpClient = httpclient.For(cfg.AllowInsecureTLS, cfg.RequestTimeout)
	}

	m.log = logger.OrNop(m.log)

	return m
}

// SignIn replaces any current clients with ones bound to provider.
func (m *Manager) SignIn(ctx context.Context, provider Provider) (*Clients, error) {
	current, err := provider.Session(ctx)
	if err != nil {
		return nil, err
	}

	if err := current.Check(m.now()); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	tokens := &tokenSource{manager: m, provider: provider, generation: m.generation}
	tracker := latency.NewTracker(latency.DefaultWindow)

	gql, err := graphql.NewClient(m.cfg.APIURL, tokens,
		graphql.WithHTTPClient(m.httpClient),
		graphql.WithLogger(logger.For(logger.ComponentGraphQL)),
		graphql.WithLatencyTracker(tracker),
		graphql.WithStrictOperations(m.cfg.StrictOperations),
	)
	if err != nil {
		m.discard()

		return nil, err
	}

	restClient, err := rest.NewClient(m.cfg.RESTBaseURL(), tokens,
		rest.WithHTTPClient(m.httpClient),
		rest.WithLogger(logger.For(logger.ComponentREST)),
	)
	if err != nil {
		m.discard()

		return nil, err
	}

	m.clients = &Clients{GraphQL: gql, REST: restClient, Session: current}
	metrics.RegisterDebugProvider(latencyDebugName, tracker)

	if user, ok := current.User.Get(); ok {
		m.log.Infof("Signed in as %s", user.Name)
	} else {
		m.log.Info("Signed in")
	}

	return m.clients, nil
}

// Clients returns the clients of the current session.
func (m *Manager) Clients() (*Clients, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clients == nil {
		return nil, ErrSignedOut
	}

	return m.clients, nil
}

func (m *Manager) SignOut() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.discard()
	m.log.Info("Signed out")
}

func (m *Manager) discard() {
	if m.clients != nil {
		metrics.UnregisterDebugProvider(latencyDebugName)
	}

	m.clients = nil
	m.generation++
}

func (m *Manager) current(generation uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.clients != nil && generation == m.generation
}

// expire drops the clients of generation and runs the reauth hook. Later
// calls for the same generation are ignored.
func (m *Manager) expire(ctx context.Context, generation uint64, reason error) {
	m.mu.Lock()
	if generation != m.generation || m.clients == nil {
		m.mu.Unlock()

		return
	}

	m.discard()
	m.mu.Unlock()

	m.log.Warnf("Session ended: %v", reason)

	if m.reauth != nil {
		m.reauth(ctx, reason)
	}
}

// tokenSource serves tokens for one generation of clients.
type tokenSource struct {
	manager    *Manager
	provider   Provider
	generation uint64
}

func (t *tokenSource) Token(ctx context.Context) (string, error) {
	if !t.manager.current(t.generation) {
		return "", &apierror.RequestError{Err: ErrSignedOut, StatusCode: http.StatusUnauthorized}
	}

	current, err := t.provider.Session(ctx)
	if err == nil {
		err = current.Check(t.manager.now())
	}

	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			t.manager.expire(ctx, t.generation, err)
		}

		return "", &apierror.RequestError{Err: err, StatusCode: http.StatusUnauthorized}
	}

	return current.AccessToken, nil
}

func (t *tokenSource) Unauthorized(ctx context.Context) {
	t.manager.expire(ctx, t.generation, ErrSessionExpired)
}
