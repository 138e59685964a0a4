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

// Package fakeapi serves a local stand-in for the safety platform: a GraphQL
// endpoint that validates documents against the bundled schema, a storage
// endpoint that accepts signed-policy uploads and a REST echo route.
package fakeapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"

	"github.com/worker-safety/safety-client/pkg/logger"
	"github.com/worker-safety/safety-client/pkg/operations"
	"github.com/worker-safety/safety-client/pkg/safejson"
)

const (
	GraphQLPath = "/graphql"
	StoragePath = "/storage"
	RESTPrefix  = "/rest"
)

// Resolver answers one operation. The returned value becomes the operation's
// root field in the response data. A non-nil error is sent as a GraphQL error.
type Resolver func(ctx context.Context, vars map[string]any) (any, error)

// Upload is a file received by the storage endpoint.
type Upload struct {
	Key         string
	Fields      map[string]string
	FileName    string
	ContentType string
	Size        int64
}

type Server struct {
	catalog *operations.Catalog
	router  *gin.Engine
	server  *http.Server
	log     *zap.SugaredLogger
	token   string

	mu        sync.RWMutex
	resolvers map[string]Resolver
	uploads   []Upload
	baseURL   string
}

type Option func(*Server)

// WithToken makes every route require this bearer token.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Server) { s.log = log }
}

func New(catalog *operations.Catalog, opts ...Option) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		catalog:   catalog,
		router:    gin.New(),
		log:       logger.For(logger.ComponentFakeAPI),
		resolvers: make(map[string]Resolver),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	s.router.POST(GraphQLPath, s.authorize, s.handleGraphQL)
	s.router.POST(StoragePath, s.handleStorage)
	s.router.Any(RESTPrefix+"/*path", s.authorize, s.handleREST)
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		s.log.Debugw("Fake API request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// Handle registers the resolver for an operation name, replacing any earlier one.
func (s *Server) Handle(operation string, resolver Resolver) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resolvers[operation] = resolver
}

// HandleData answers operation with a fixed value.
func (s *Server) HandleData(operation string, value any) {
	s.Handle(operation, func(context.Context, map[string]any) (any, error) {
		return value, nil
	})
}

// HandleError answers operation with a GraphQL error.
func (s *Server) HandleError(operation, message string) {
	s.Handle(operation, func(context.Context, map[string]any) (any, error) {
		return nil, gqlerror.Errorf("%s", message)
	})
}

// Handler exposes the router, for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Uploads returns the files the storage endpoint accepted so far.
func (s *Server) Uploads() []Upload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Upload(nil), s.uploads...)
}

// SetBaseURL tells the server where it is reachable, for upload policies.
// Start sets it itself.
func (s *Server) SetBaseURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.baseURL = strings.TrimSuffix(url, "/")
}

func (s *Server) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.baseURL
}

// Start listens on addr and serves in the background until Stop.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.SetBaseURL("http://" + listener.Addr().String())

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.log.Infow("Starting fake API", "url", s.BaseURL())

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorw("Fake API failed", "error", err)
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.log.Info("Stopping fake API")

	return s.server.Shutdown(ctx)
}

func (s *Server) authorize(c *gin.Context) {
	if s.token == "" {
		return
	}

	if c.GetHeader("Authorization") != "Bearer "+s.token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid or missing bearer token"})
	}
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func (s *Server) handleGraphQL(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gqlerror.List{gqlerror.Errorf("read request: %v", err)}})

		return
	}

	var req graphQLRequest
	if err := safejson.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gqlerror.List{gqlerror.Errorf("malformed request: %v", err)}})

		return
	}

	op, err := s.catalog.Compile(req.Query)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"errors": asErrorList(err)})

		return
	}

	if req.OperationName != "" && req.OperationName != op.Name {
		c.JSON(http.StatusOK, gin.H{"errors": gqlerror.List{gqlerror.Errorf("operation %q not found in document", req.OperationName)}})

		return
	}

	s.mu.RLock()
	resolver, ok := s.resolvers[op.Name]
	s.mu.RUnlock()

	if !ok {
		c.JSON(http.StatusOK, gin.H{"errors": gqlerror.List{gqlerror.Errorf("no resolver for operation %s", op.Name)}})

		return
	}

	value, err := resolver(c.Request.Context(), req.Variables)
	if err != nil {
		errs := asErrorList(err)
		for _, e := range errs {
			if len(e.Path) == 0 {
				e.Path = ast.Path{ast.PathName(op.Field)}
			}
		}

		c.JSON(http.StatusOK, gin.H{"data": gin.H{op.Field: nil}, "errors": errs})

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{op.Field: value}})
}

func asErrorList(err error) gqlerror.List {
	var list gqlerror.List
	if errors.As(err, &list) {
		return list
	}

	var single *gqlerror.Error
	if errors.As(err, &single) {
		return gqlerror.List{single}
	}

	return gqlerror.List{gqlerror.Errorf("%s", err.Error())}
}

// handleStorage mimics an S3 POST policy upload: the form must carry the
// policy fields and a file part, and a successful upload answers 204.
func (s *Server) handleStorage(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.String(http.StatusBadRequest, "<Error><Code>MalformedPOSTRequest</Code></Error>")

		return
	}

	fields := make(map[string]string, len(form.Value))
	for name, values := range form.Value {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}

	if fields["key"] == "" || fields["policy"] == "" {
		c.String(http.StatusForbidden, "<Error><Code>AccessDenied</Code><Message>Invalid according to Policy</Message></Error>")

		return
	}

	files := form.File["file"]
	if len(files) != 1 {
		c.String(http.StatusBadRequest, "<Error><Code>IncorrectNumberOfFilesInPostRequest</Code></Error>")

		return
	}

	header := files[0]

	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{
		Key:         fields["key"],
		Fields:      fields,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	s.mu.Unlock()

	c.Status(http.StatusNoContent)
}

// handleREST echoes the request back so callers can check what they sent.
func (s *Server) handleREST(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})

		return
	}

	var payload any
	if len(body) > 0 {
		if payload, err = safejson.DecodeValue(body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "request body is not JSON"})

			return
		}
	}

	path := c.Param("path")
	if strings.Contains(path, "missing") {
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("resource %s does not exist", path)})

		return
	}

	if c.Request.Method == http.MethodDelete {
		c.Status(http.StatusNoContent)

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"method": c.Request.Method,
		"path":   path,
		"query":  c.Request.URL.RawQuery,
		"body":   payload,
	})
}
