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

// Package upload sends attachments straight to object storage using signed
// upload policies issued by the API.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/worker-safety/safety-client/pkg/api"
	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/entities"
	"github.com/worker-safety/safety-client/pkg/graphql"
	"github.com/worker-safety/safety-client/pkg/httpclient"
	"github.com/worker-safety/safety-client/pkg/logger"
	"github.com/worker-safety/safety-client/pkg/metrics"
)

const (
	fileField          = "file"
	defaultConcurrency = 4
	defaultContentType = "application/octet-stream"
)

// LocalFile is an attachment waiting to be uploaded.
type LocalFile struct {
	Name        string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FromPath reads the file at path when the upload starts.
func FromPath(path string) LocalFile {
	return LocalFile{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

func FromBytes(name string, data []byte) LocalFile {
	return LocalFile{
		Name:        name,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

type Uploader struct {
	client      *graphql.Client
	httpClient  *http.Client
	concurrency int
	log         *zap.SugaredLogger
}

type Option func(*Uploader)

// WithHTTPClient sets the client used for storage requests. These never
// carry the API bearer token.
func WithHTTPClient(c *http.Client) Option {
	return func(u *Uploader) { u.httpClient = c }
}

func WithConcurrency(n int) Option {
	return func(u *Uploader) { u.concurrency = n }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(u *Uploader) { u.log = log }
}

func NewUploader(client *graphql.Client, opts ...Option) *Uploader {
	u := &Uploader{client: client, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(u)
	}

	if u.httpClient == nil {
		u.httpClient = httpclient.Shared(false)
	}

	if u.concurrency <= 0 {
		u.concurrency = defaultConcurrency
	}

	u.log = logger.OrNop(u.log)

	return u
}

// Upload requests one policy per file and posts the files concurrently. The
// first failure cancels the remaining uploads. The returned files are in the
// order given.
func (u *Uploader) Upload(ctx context.Context, files ...LocalFile) ([]entities.File, error) {
	if len(files) == 0 {
		return nil, nil
	}

	policies, err := api.FileUploadPolicies(ctx, u.client, len(files))
	if err != nil {
		return nil, err
	}

	if len(policies) != len(files) {
		return nil, &apierror.RequestError{Err: fmt.Errorf("requested %d upload policies, got %d", len(files), len(policies))}
	}

	uploaded := make([]entities.File, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)

	for i := range files {
		i := i
		g.Go(func() error {
			file, err := u.post(gctx, policies[i], files[i])
			if err != nil {
				return err
			}

			uploaded[i] = file

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return uploaded, nil
}

func (u *Uploader) post(ctx context.Context, policy entities.FileUploadPolicy, file LocalFile) (entities.File, error) {
	body, contentType, size, err := buildForm(policy.Fields, file)
	if err != nil {
		return entities.File{}, &apierror.RequestError{Err: fmt.Errorf("prepare %s: %w", file.Name, err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, policy.URL, bytes.NewReader(body))
	if err != nil {
		return entities.File{}, &apierror.RequestError{Err: err}
	}

	req.Header.Set("Content-Type", contentType)

	start := time.Now()

	response, err := u.httpClient.Do(req)
	if err != nil {
		metrics.ObserveHTTPResponse(metrics.TransportStorage, 0)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return entities.File{}, &apierror.RequestError{Err: ctxErr}
		}

		return entities.File{}, &apierror.RequestError{Err: httpclient.DescribeConnectionError(err)}
	}

	defer func() {
		if err := response.Body.Close(); err != nil {
			u.log.Errorf("Error closing response body: %v", err)
		}
	}()

	metrics.ObserveHTTPResponse(metrics.TransportStorage, response.StatusCode)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(response.Body, 4096))

		return entities.File{}, &apierror.RequestError{
			Err:        fmt.Errorf("upload of %s rejected: %s", file.Name, httpclient.Snippet(raw)),
			StatusCode: response.StatusCode,
		}
	}

	metrics.AddUploadedBytes(size)
	u.log.Debugf("Uploaded %s (%d bytes) in %s", file.Name, size, time.Since(start))

	return uploadedFile(policy, file, size)
}

// buildForm writes the policy fields in key order followed by the file part,
// which storage services require to be last.
func buildForm(fields entities.PolicyFields, file LocalFile) ([]byte, string, int64, error) {
	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", 0, err
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, file.Name))
	header.Set("Content-Type", contentTypeOf(file))

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", 0, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", 0, err
	}
	defer src.Close()

	size, err := io.Copy(part, src)
	if err != nil {
		return nil, "", 0, err
	}

	if err := w.Close(); err != nil {
		return nil, "", 0, err
	}

	return buf.Bytes(), w.FormDataContentType(), size, nil
}

func uploadedFile(policy entities.FileUploadPolicy, file LocalFile, size int64) (entities.File, error) {
	id, err := codec.NewID[entities.FileKind](policy.ID.String())
	if err != nil {
		return entities.File{}, err
	}

	url := policy.URL
	if key, ok := policy.Fields["key"]; ok {
		url = strings.TrimRight(policy.URL, "/") + "/" + strings.TrimLeft(key, "/")
	}

	return entities.File{
		ID:          id,
		Name:        file.Name,
		DisplayName: file.Name,
		Size:        codec.Some(FormatSize(size)),
		URL:         url,
		SignedURL:   codec.Some(policy.SignedURL),
		MimeType:    codec.Some(contentTypeOf(file)),
	}, nil
}

func contentTypeOf(file LocalFile) string {
	if file.ContentType != "" {
		return file.ContentType
	}

	return defaultContentType
}

// FormatSize renders a byte count the way file sizes are shown on forms.
func FormatSize(n int64) string {
	const unit = 1024

	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
