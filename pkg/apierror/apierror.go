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

// Package apierror defines the three failures a request can end in and how
// they are presented to developers and to end users.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/worker-safety/safety-client/pkg/codec"
)

// Error is implemented only by *RequestError, *DecodeError and *JSONParseError.
type Error interface {
	error
	apiError()
}

// RequestError is a transport failure: the request could not be sent, the
// server answered with a non-2xx status or a GraphQL errors array, the
// operation panicked, or the session had expired.
type RequestError struct {
	Err error
	// StatusCode is 0 when no HTTP response was received.
	StatusCode int
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request error (status %d): %v", e.StatusCode, e.Err)
	}

	return fmt.Sprintf("request error: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

func (*RequestError) apiError() {}

// transientStatusCodes usually clear up on their own. The classification only
// drives error reporting; requests are never retried.
var transientStatusCodes = []int{
	http.StatusRequestTimeout,
	http.StatusMisdirectedRequest,
	http.StatusUnprocessableEntity,
	http.StatusTooEarly,
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

func (e *RequestError) Transient() bool {
	return slices.Contains(transientStatusCodes, e.StatusCode)
}

// DecodeError is a response whose shape did not match the expected codec.
type DecodeError = codec.DecodeError

// JSONParseError is a response body that was not valid JSON.
type JSONParseError struct {
	Err  error
	Body []byte
}

func (e *JSONParseError) Error() string {
	return fmt.Sprintf("json parse error: %v", e.Err)
}

func (e *JSONParseError) Unwrap() error { return e.Err }

func (*JSONParseError) apiError() {}

// decodeError gives codec.DecodeError its place in the sealed set.
type decodeError struct {
	*codec.DecodeError
}

func (decodeError) apiError() {}

// As finds the API error in err's chain.
func As(err error) (Error, bool) {
	var requestErr *RequestError
	if errors.As(err, &requestErr) {
		return requestErr, true
	}

	var parseErr *JSONParseError
	if errors.As(err, &parseErr) {
		return parseErr, true
	}

	var decodeErr *codec.DecodeError
	if errors.As(err, &decodeErr) {
		return decodeError{decodeErr}, true
	}

	return nil, false
}

// NewRequestError wraps err unless it already is an API error.
func NewRequestError(err error, statusCode int) error {
	if apiErr, ok := As(err); ok {
		return unwrapSealed(apiErr)
	}

	return &RequestError{Err: err, StatusCode: statusCode}
}

func unwrapSealed(err Error) error {
	if d, ok := err.(decodeError); ok {
		return d.DecodeError
	}

	return err
}

const (
	MessageDeleted     = "This item has been deleted and is no longer available."
	MessageRequest     = "We could not reach the server. Check your connection and try again."
	MessageUnavailable = "The server is temporarily unavailable. Please try again in a few minutes."
	MessageDecode      = "The server sent data this application does not understand. Please contact support."
	MessageParse       = "The server sent an unreadable response. Please contact support."
	MessageUnknown     = "Something went wrong. Please try again."
)

// Verbose renders err for developers, with field paths and the raw cause.
func Verbose(err error) string {
	if err == nil {
		return ""
	}

	apiErr, ok := As(err)
	if !ok {
		return "Unexpected error: " + err.Error()
	}

	switch e := apiErr.(type) {
	case *RequestError:
		status := "no response"
		if e.StatusCode != 0 {
			status = fmt.Sprintf("status %d", e.StatusCode)
		}

		return fmt.Sprintf("Request error (%s): %v", status, e.Err)
	case *JSONParseError:
		return fmt.Sprintf("JSON parse error: %v\nbody: %s", e.Err, truncate(string(e.Body), 500))
	case decodeError:
		var b strings.Builder

		b.WriteString("Decode error:")

		for _, issue := range e.Issues {
			fmt.Fprintf(&b, "\n  %s: %s", issue.Path, issue.Message)
		}

		return b.String()
	default:
		return err.Error()
	}
}

// UserMessage renders err for end users. A request error whose text mentions
// "does not exist" is reported as a deleted item; the server has no dedicated
// error code for that case.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	apiErr, ok := As(err)
	if !ok {
		return MessageUnknown
	}

	switch e := apiErr.(type) {
	case *RequestError:
		if strings.Contains(e.Error(), "does not exist") {
			return MessageDeleted
		}

		if e.Transient() {
			return MessageUnavailable
		}

		return MessageRequest
	case *JSONParseError:
		return MessageParse
	case decodeError:
		return MessageDecode
	default:
		return MessageUnknown
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
