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

// Package session ties the API clients to an authenticated session. Clients
// are created on sign-in and discarded on sign-out or expiry.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/entities"
)

var (
	ErrSessionExpired = errors.New("session expired")
	ErrSignedOut      = errors.New("not signed in")
)

// Session is what the identity provider knows about the signed-in user.
type Session struct {
	AccessToken string
	// ExpiresAt is zero for tokens without a known expiry.
	ExpiresAt time.Time
	// Error is set by providers that failed to refresh the token.
	Error string
	User  codec.Option[entities.User]
}

// Check reports ErrSessionExpired when the session can no longer authenticate requests.
func (s Session) Check(now time.Time) error {
	switch {
	case s.Error != "":
		return fmt.Errorf("%w: %s", ErrSessionExpired, s.Error)
	case s.AccessToken == "":
		return fmt.Errorf("%w: no access token", ErrSessionExpired)
	case !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt):
		return fmt.Errorf("%w: token expired at %s", ErrSessionExpired, s.ExpiresAt.Format(time.RFC3339))
	default:
		return nil
	}
}

// Provider returns the current session. It is asked before every request so
// refreshed tokens are picked up.
type Provider interface {
	Session(ctx context.Context) (Session, error)
}

type ProviderFunc func(ctx context.Context) (Session, error)

func (f ProviderFunc) Session(ctx context.Context) (Session, error) { return f(ctx) }

// StaticProvider serves a fixed token, e.g. one from configuration.
type StaticProvider struct {
	Token string
}

func (p StaticProvider) Session(context.Context) (Session, error) {
	return Session{AccessToken: p.Token}, nil
}

// ReauthFunc is called once per signed-in session when it stops being
// usable. Typical implementations prompt the user to sign in again.
type ReauthFunc func(ctx context.Context, reason error)
