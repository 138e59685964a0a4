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

// Package rest is the escape hatch for the few endpoints that are not exposed
// through GraphQL. Requests are sent once with the session's bearer token.
package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/httpclient"
	"github.com/worker-safety/safety-client/pkg/logger"
	"github.com/worker-safety/safety-client/pkg/metrics"
	"github.com/worker-safety/safety-client/pkg/safejson"
)

type Client struct {
	baseURL    string
	tokens     httpclient.TokenSource
	httpClient *http.Client
	log        *zap.SugaredLogger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) { client.httpClient = c }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(client *Client) { client.log = log }
}

func NewClient(baseURL string, tokens httpclient.TokenSource, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid REST base URL %q", baseURL)
	}

	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), tokens: tokens}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = httpclient.Shared(false)
	}

	c.log = logger.OrNop(c.log)

	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// Do sends payload (nil for no body) as JSON and decodes the response into R.
// An empty response body yields a nil result.
func Do[R any](ctx context.Context, c *Client, method, endpoint string, payload any) (*R, int, error) {
	raw, status, err := c.send(ctx, method, endpoint, payload)
	if err != nil || len(raw) == 0 {
		return nil, status, err
	}

	var result R
	if err := safejson.Unmarshal(raw, &result); err != nil {
		return nil, status, &apierror.JSONParseError{Err: err, Body: raw}
	}

	return &result, status, nil
}

// Decode is Do for responses validated through a codec.
func Decode[R any](ctx context.Context, c *Client, method, endpoint string, payload any, rc codec.Codec[R]) (R, int, error) {
	var zero R

	raw, status, err := c.send(ctx, method, endpoint, payload)
	if err != nil {
		return zero, status, err
	}

	var value any
	if len(bytes.TrimSpace(raw)) > 0 {
		value, err = safejson.DecodeValue(raw)
		if err != nil {
			return zero, status, &apierror.JSONParseError{Err: err, Body: raw}
		}
	}

	result, err := codec.Decode(rc, value)
	if err != nil {
		return zero, status, err
	}

	return result, status, nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload any) ([]byte, int, error) {
	var body io.Reader

	if payload != nil {
		encoded, err := safejson.Marshal(payload)
		if err != nil {
			return nil, 0, &apierror.RequestError{Err: fmt.Errorf("encode payload: %w", err)}
		}

		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(endpoint), body)
	if err != nil {
		return nil, 0, &apierror.RequestError{Err: err}
	}

	req.Header.Set("Accept", "application/json")

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := httpclient.SetBearer(req, c.tokens); err != nil {
		return nil, 0, apierror.NewRequestError(err, http.StatusUnauthorized)
	}

	start := time.Now()

	response, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveHTTPResponse(metrics.TransportREST, 0)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, &apierror.RequestError{Err: ctxErr}
		}

		return nil, 0, &apierror.RequestError{Err: httpclient.DescribeConnectionError(err)}
	}

	defer func() {
		if err := response.Body.Close(); err != nil {
			c.log.Errorf("Error closing response body: %v", err)
		}
	}()

	metrics.ObserveHTTPResponse(metrics.TransportREST, response.StatusCode)
	c.log.Debugf("%s %s returned %d after %s", method, endpoint, response.StatusCode, time.Since(start))

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, response.StatusCode, &apierror.RequestError{Err: fmt.Errorf("read response: %w", err), StatusCode: response.StatusCode}
	}

	httpclient.NotifyUnauthorized(ctx, c.tokens, response.StatusCode)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, response.StatusCode, &apierror.RequestError{
			Err:        errors.New("error response code: " + response.Status + responseDetail(raw)),
			StatusCode: response.StatusCode,
		}
	}

	return raw, response.StatusCode, nil
}

func (c *Client) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}

	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// responseDetail pulls a message out of common JSON error bodies.
func responseDetail(raw []byte) string {
	var body struct {
		Detail  any    `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	if err := safejson.Unmarshal(raw, &body); err != nil {
		if snippet := httpclient.Snippet(raw); snippet != "" {
			return ": " + snippet
		}

		return ""
	}

	switch {
	case body.Detail != nil:
		return fmt.Sprintf(": %v", body.Detail)
	case body.Message != "":
		return ": " + body.Message
	case body.Error != "":
		return ": " + body.Error
	default:
		return ""
	}
}
