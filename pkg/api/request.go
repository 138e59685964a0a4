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

// Package api runs typed operations: one call, one decode, and every failure
// returned as an apierror value.
package api

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/logger"
	"github.com/worker-safety/safety-client/pkg/metrics"
)

const unnamedOperation = "unnamed"

// OperationFunc performs one network call and returns the raw JSON value.
type OperationFunc[V any] func(ctx context.Context, vars V) (any, error)

// Request invokes op once, decodes its result through c and maps it with
// mapFn. The error is always nil or one of *apierror.RequestError,
// *apierror.DecodeError and *apierror.JSONParseError. Panics in op or
// mapFn are returned as request errors.
func Request[V, D, R any](ctx context.Context, op OperationFunc[V], vars V, c codec.Codec[D], mapFn func(D) R) (R, error) {
	return RequestNamed(ctx, unnamedOperation, op, vars, c, mapFn)
}

// RequestNamed is Request with the operation name used for logs and metrics.
func RequestNamed[V, D, R any](ctx context.Context, name string, op OperationFunc[V], vars V, c codec.Codec[D], mapFn func(D) R) (result R, err error) {
	start := time.Now()

	defer func() {
		finish(name, err, time.Since(start))
	}()

	raw, err := invoke(ctx, op, vars)
	if err != nil {
		return result, apierror.NewRequestError(err, 0)
	}

	decoded, issues := c.Decode(raw, "")
	if len(issues) > 0 {
		return result, &apierror.DecodeError{Issues: issues}
	}

	return mapResult(decoded, mapFn)
}

// Identity is the mapFn for callers that want the decoded value as is.
func Identity[T any](v T) T { return v }

func invoke[V any](ctx context.Context, op OperationFunc[V], vars V) (raw any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &apierror.RequestError{Err: panicError("operation panicked", r)}

			logger.For(logger.ComponentAPI).Errorf("Operation panicked: %v\n%s", r, debug.Stack())
		}
	}()

	return op(ctx, vars)
}

func mapResult[D, R any](decoded D, mapFn func(D) R) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &apierror.RequestError{Err: panicError("mapping result panicked", r)}
		}
	}()

	return mapFn(decoded), nil
}

// panicError keeps a panicked error in the chain so errors.Is still finds it.
func panicError(prefix string, r any) error {
	if e, ok := r.(error); ok {
		return fmt.Errorf("%s: %w", prefix, e)
	}

	return fmt.Errorf("%s: %v", prefix, r)
}

func finish(name string, err error, elapsed time.Duration) {
	metrics.ObserveRequest(name, err, elapsed)

	log := logger.For(logger.ComponentAPI)
	if err == nil {
		log.Debugf("%s succeeded in %s", name, elapsed)
		resetTransientCounter()

		return
	}

	log.Debugf("%s failed in %s: %v", name, elapsed, err)
	report(name, err, elapsed)
}
