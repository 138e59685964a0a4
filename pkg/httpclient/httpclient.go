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

// Package httpclient builds the HTTP clients shared by the GraphQL, REST and
// storage transports.
package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const DefaultTimeout = 30 * time.Second

var (
	secureHTTPClient   *http.Client
	insecureHTTPClient *http.Client
	initOnce           sync.Once
)

// Shared returns a process-wide client. HTTP/2 is disabled and proxies are
// taken from the environment.
func Shared(insecureTLS bool) *http.Client {
	initOnce.Do(func() {
		secureHTTPClient = New(false, DefaultTimeout)
		insecureHTTPClient = New(true, DefaultTimeout)
	})

	if insecureTLS {
		return insecureHTTPClient
	}

	return secureHTTPClient
}

// New builds a dedicated client, e.g. when the configured timeout differs
// from the default.
func New(insecureTLS bool, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		ForceAttemptHTTP2: false,
		TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
		Proxy:             http.ProxyFromEnvironment,
	}

	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // opt-in for self-signed development backends
		}
	}

	return &http.Client{Transport: transport, Timeout: timeout}
}

// For returns the shared client for the default timeout and a dedicated one otherwise.
func For(insecureTLS bool, timeout time.Duration) *http.Client {
	if timeout <= 0 || timeout == DefaultTimeout {
		return Shared(insecureTLS)
	}

	return New(insecureTLS, timeout)
}

// DescribeConnectionError adds likely causes to errors raised before any
// response arrived.
func DescribeConnectionError(err error) error {
	msg := err.Error()

	switch {
	case errors.Is(err, io.EOF) || strings.Contains(msg, "EOF"):
		return fmt.Errorf("connection closed unexpectedly before receiving response: %w (possible causes: network issues, server timeout, or firewall blocking)", err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return fmt.Errorf("request timed out: %w (possible causes: slow network, server overload, or request too large)", err)
	case strings.Contains(msg, "connection refused"):
		return fmt.Errorf("connection refused: %w (possible causes: server down, incorrect URL, or firewall blocking)", err)
	default:
		return fmt.Errorf("connection error: %w (no response received from server)", err)
	}
}

// Snippet shortens a response body for error messages.
func Snippet(body []byte) string {
	const limit = 200

	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}

	return s
}

// TokenSource yields the bearer token for the next request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Unauthorizer is implemented by token sources that want to hear about 401
// responses, e.g. to start re-authentication.
type Unauthorizer interface {
	Unauthorized(ctx context.Context)
}

// SetBearer asks tokens for a token and sets the Authorization header.
func SetBearer(req *http.Request, tokens TokenSource) error {
	if tokens == nil {
		return nil
	}

	token, err := tokens.Token(req.Context())
	if err != nil {
		return err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return nil
}

// NotifyUnauthorized forwards a 401 to tokens if it listens for them.
func NotifyUnauthorized(ctx context.Context, tokens TokenSource, statusCode int) {
	if statusCode != http.StatusUnauthorized {
		return
	}

	if u, ok := tokens.(Unauthorizer); ok {
		u.Unauthorized(ctx)
	}
}
