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

// Package graphql posts operation documents to the API endpoint and returns
// the raw data value for decoding. It never retries.
package graphql

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"

	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/httpclient"
	"github.com/worker-safety/safety-client/pkg/latency"
	"github.com/worker-safety/safety-client/pkg/logger"
	"github.com/worker-safety/safety-client/pkg/metrics"
	"github.com/worker-safety/safety-client/pkg/operations"
	"github.com/worker-safety/safety-client/pkg/safejson"
)

const RequestIDHeader = "X-Request-ID"

var ErrNoData = errors.New("response carried no data")

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type envelope struct {
	Errors gqlerror.List `json:"errors,omitempty"`
}

// Client is bound to one endpoint and one session.
type Client struct {
	endpoint   string
	tokens     httpclient.TokenSource
	httpClient *http.Client
	catalog    *operations.Catalog
	strict     bool
	log        *zap.SugaredLogger
	latency    *latency.Tracker
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) { client.httpClient = c }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(client *Client) { client.log = log }
}

func WithLatencyTracker(t *latency.Tracker) Option {
	return func(client *Client) { client.latency = t }
}

func WithCatalog(c *operations.Catalog) Option {
	return func(client *Client) { client.catalog = c }
}

// WithStrictOperations validates every document against the bundled schema
// before it is sent.
func WithStrictOperations(strict bool) Option {
	return func(client *Client) { client.strict = strict }
}

func NewClient(endpoint string, tokens httpclient.TokenSource, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("graphql endpoint is required")
	}

	if tokens == nil {
		return nil, errors.New("token source is required")
	}

	c := &Client{endpoint: endpoint, tokens: tokens}
	for _, opt := range opts {
		opt(c)
	}

	if c.catalog == nil {
		catalog, err := operations.Default()
		if err != nil {
			return nil, err
		}

		c.catalog = catalog
	}

	if c.httpClient == nil {
		c.httpClient = httpclient.Shared(false)
	}

	if c.latency == nil {
		c.latency = latency.NewTracker(latency.DefaultWindow)
	}

	c.log = logger.OrNop(c.log)

	return c, nil
}

func (c *Client) Endpoint() string { return c.endpoint }

func (c *Client) Catalog() *operations.Catalog { return c.catalog }

func (c *Client) Latency() *latency.Tracker { return c.latency }

// ExecuteNamed runs a catalog operation.
func (c *Client) ExecuteNamed(ctx context.Context, name string, vars map[string]any) (any, error) {
	op, err := c.catalog.Get(name)
	if err != nil {
		return nil, &apierror.RequestError{Err: err}
	}

	return c.Execute(ctx, op, vars)
}

// Execute sends op once and returns the response's data value. Failures are
// *apierror.RequestError or *apierror.JSONParseError.
func (c *Client) Execute(ctx context.Context, op operations.Operation, vars map[string]any) (any, error) {
	if c.strict {
		if _, err := c.catalog.Validate(op.Document); err != nil {
			return nil, &apierror.RequestError{Err: fmt.Errorf("operation %s does not match the schema: %w", op.Name, err)}
		}
	}

	body, err := safejson.Marshal(request{Query: op.Document, OperationName: op.Name, Variables: vars})
	if err != nil {
		return nil, &apierror.RequestError{Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &apierror.RequestError{Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	if err := httpclient.SetBearer(req, c.tokens); err != nil {
		return nil, apierror.NewRequestError(err, http.StatusUnauthorized)
	}

	log := c.log.With("operation", op.Name, "requestId", requestID)

	start := time.Now()

	response, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveHTTPResponse(metrics.TransportGraphQL, 0)
		log.Debugf("Request failed after %s: %v", time.Since(start), err)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &apierror.RequestError{Err: ctxErr}
		}

		return nil, &apierror.RequestError{Err: httpclient.DescribeConnectionError(err)}
	}

	defer func() {
		if err := response.Body.Close(); err != nil {
			log.Errorf("Error closing response body: %v", err)
		}
	}()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &apierror.RequestError{Err: fmt.Errorf("read response: %w", err), StatusCode: response.StatusCode}
	}

	elapsed := time.Since(start)
	c.latency.Observe(elapsed)
	metrics.ObserveHTTPResponse(metrics.TransportGraphQL, response.StatusCode)
	log.Debugf("Received status %d after %s (%d bytes)", response.StatusCode, elapsed, len(raw))

	httpclient.NotifyUnauthorized(ctx, c.tokens, response.StatusCode)

	return parseResponse(response.StatusCode, raw)
}

func parseResponse(status int, raw []byte) (any, error) {
	ok := status >= 200 && status <= 299

	var env envelope
	if err := safejson.Unmarshal(raw, &env); err != nil {
		if !ok {
			return nil, &apierror.RequestError{Err: fmt.Errorf("unexpected response: %s", httpclient.Snippet(raw)), StatusCode: status}
		}

		return nil, &apierror.JSONParseError{Err: err, Body: raw}
	}

	if len(env.Errors) > 0 {
		return nil, &apierror.RequestError{Err: env.Errors, StatusCode: status}
	}

	if !ok {
		return nil, &apierror.RequestError{Err: fmt.Errorf("unexpected response: %s", httpclient.Snippet(raw)), StatusCode: status}
	}

	value, err := safejson.DecodeValue(raw)
	if err != nil {
		return nil, &apierror.JSONParseError{Err: err, Body: raw}
	}

	object, isObject := value.(map[string]any)
	if !isObject {
		return nil, &apierror.JSONParseError{Err: errors.New("response is not a JSON object"), Body: raw}
	}

	data, present := object["data"]
	if !present || data == nil {
		return nil, &apierror.RequestError{Err: ErrNoData, StatusCode: status}
	}

	return data, nil
}

// Op adapts a catalog operation to a typed-variables function. Variables are
// encoded to their wire form with absent optionals removed.
func Op[V any](c *Client, name string) func(ctx context.Context, vars V) (any, error) {
	return func(ctx context.Context, vars V) (any, error) {
		wire, err := codec.ToWireMap(vars)
		if err != nil {
			return nil, &apierror.RequestError{Err: fmt.Errorf("encode variables for %s: %w", name, err)}
		}

		return c.ExecuteNamed(ctx, name, wire)
	}
}
