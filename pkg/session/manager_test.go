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

package session_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/h2non/gock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/config"
	"github.com/worker-safety/safety-client/pkg/entities"
	"github.com/worker-safety/safety-client/pkg/operations"
	"github.com/worker-safety/safety-client/pkg/session"
)

const apiHost = "https://api.safety.test"

type switchableProvider struct {
	mu      sync.Mutex
	current session.Session
}

func (p *switchableProvider) Session(context.Context) (session.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current, nil
}

func (p *switchableProvider) set(s session.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = s
}

var _ = Describe("Session", func() {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	DescribeTable("Check",
		func(s session.Session, expired bool) {
			err := s.Check(now)
			if expired {
				Expect(errors.Is(err, session.ErrSessionExpired)).To(BeTrue())
			} else {
				Expect(err).ToNot(HaveOccurred())
			}
		},
		Entry("valid token", session.Session{AccessToken: "tok"}, false),
		Entry("not yet expired", session.Session{AccessToken: "tok", ExpiresAt: now.Add(time.Minute)}, false),
		Entry("expired", session.Session{AccessToken: "tok", ExpiresAt: now}, true),
		Entry("refresh error", session.Session{AccessToken: "tok", Error: "RefreshAccessTokenError"}, true),
		Entry("no token", session.Session{}, true),
	)
})

var _ = Describe("Manager", func() {
	var (
		httpClient *http.Client
		manager    *session.Manager
		provider   *switchableProvider
		reauths    []error
		ctx        context.Context
	)

	BeforeEach(func() {
		httpClient = &http.Client{}
		gock.InterceptClient(httpClient)

		ctx = context.Background()
		reauths = nil
		provider = &switchableProvider{current: session.Session{
			AccessToken: "tok",
			User:        codec.Some(entities.User{ID: codec.MustID[entities.UserKind]("u-1"), Name: "Ada"}),
		}}

		cfg := config.Default().Client
		cfg.APIURL = apiHost + "/graphql"

		manager = session.NewManager(cfg,
			session.WithHTTPClient(httpClient),
			session.WithReauth(func(_ context.Context, reason error) { reauths = append(reauths, reason) }),
		)
	})

	AfterEach(func() {
		manager.SignOut()
		gock.RestoreClient(httpClient)
		gock.OffAll()
	})

	It("has no clients before sign-in", func() {
		_, err := manager.Clients()
		Expect(err).To(MatchError(session.ErrSignedOut))
	})

	It("refuses to sign in with an unusable session", func() {
		_, err := manager.SignIn(ctx, session.StaticProvider{})
		Expect(errors.Is(err, session.ErrSessionExpired)).To(BeTrue())
	})

	It("creates clients that send the session token", func() {
		gock.New(apiHost).
			Post("/graphql").
			MatchHeader("Authorization", "^Bearer tok$").
			Reply(200).
			JSON(map[string]any{"data": map[string]any{"me": map[string]any{"id": "u-1", "name": "Ada"}}})

		clients, err := manager.SignIn(ctx, provider)
		Expect(err).ToNot(HaveOccurred())
		Expect(clients.REST.BaseURL()).To(Equal(apiHost))

		current, err := manager.Clients()
		Expect(err).ToNot(HaveOccurred())
		Expect(current).To(BeIdenticalTo(clients))

		_, err = clients.GraphQL.ExecuteNamed(ctx, operations.Me, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(gock.IsDone()).To(BeTrue())
	})

	It("runs the reauth hook once when the session reports an error", func() {
		clients, err := manager.SignIn(ctx, provider)
		Expect(err).ToNot(HaveOccurred())

		provider.set(session.Session{AccessToken: "tok", Error: "RefreshAccessTokenError"})

		_, err = clients.GraphQL.ExecuteNamed(ctx, operations.Me, nil)

		var requestErr *apierror.RequestError
		Expect(errors.As(err, &requestErr)).To(BeTrue())
		Expect(requestErr.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(errors.Is(err, session.ErrSessionExpired)).To(BeTrue())

		_, err = clients.GraphQL.ExecuteNamed(ctx, operations.Me, nil)
		Expect(errors.Is(err, session.ErrSignedOut)).To(BeTrue())

		Expect(reauths).To(HaveLen(1))
		_, err = manager.Clients()
		Expect(err).To(MatchError(session.ErrSignedOut))
	})

	It("runs the reauth hook when the server answers 401", func() {
		gock.New(apiHost).
			Post("/graphql").
			Reply(401).
			BodyString("")

		clients, err := manager.SignIn(ctx, provider)
		Expect(err).ToNot(HaveOccurred())

		_, err = clients.GraphQL.ExecuteNamed(ctx, operations.Me, nil)
		Expect(err).To(HaveOccurred())
		Expect(reauths).To(HaveLen(1))
	})

	It("discards clients on sign-out", func() {
		clients, err := manager.SignIn(ctx, provider)
		Expect(err).ToNot(HaveOccurred())

		manager.SignOut()

		_, err = clients.GraphQL.ExecuteNamed(ctx, operations.Me, nil)
		Expect(errors.Is(err, session.ErrSignedOut)).To(BeTrue())
		Expect(reauths).To(BeEmpty())
	})
})
