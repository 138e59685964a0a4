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

package api_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/worker-safety/safety-client/pkg/api"
	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/entities"
	"github.com/worker-safety/safety-client/pkg/metrics"
	"github.com/worker-safety/safety-client/pkg/safejson"
)

func respondWith(raw string) api.OperationFunc[string] {
	return func(context.Context, string) (any, error) {
		return safejson.DecodeValue([]byte(raw))
	}
}

func eboPayload(department string) string {
	return `{
		"id": "ebo-1",
		"status": "IN_PROGRESS",
		"createdAt": "2024-05-01T08:00:00Z",
		"contents": {
			"details": {
				"observationDate": "2024-05-01",
				"observationTime": "08:30",
				"departmentObserved": ` + department + `
			}
		}
	}`
}

var _ = Describe("Request", func() {
	ctx := context.Background()

	It("decodes a task and applies the mapping", func() {
		op := respondWith(`{"id": "abc", "name": "Task 1", "riskLevel": "LOW", "libraryTask": {"id": "lt-1"}}`)

		name, err := api.Request(ctx, op, "", entities.TaskCodec, func(t entities.Task) string {
			return t.ID.String() + "/" + string(t.RiskLevel)
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(name).To(Equal("abc/" + string(entities.RiskLevelLow)))
	})

	It("returns a decode error citing the empty id", func() {
		op := respondWith(`{"id": "", "name": "Task 1", "riskLevel": "LOW", "libraryTask": {"id": "lt-1"}}`)

		_, err := api.Request(ctx, op, "", entities.TaskCodec, api.Identity[entities.Task])

		var decodeErr *apierror.DecodeError
		Expect(errors.As(err, &decodeErr)).To(BeTrue())
		Expect(decodeErr.Issues.Paths()).To(ConsistOf("id"))
	})

	It("wraps a failing operation in a request error", func() {
		networkDown := errors.New("network down")
		op := api.OperationFunc[string](func(context.Context, string) (any, error) {
			return nil, networkDown
		})

		before := testutil.ToFloat64(metrics.RequestCount("unnamed", metrics.OutcomeRequestError))

		var (
			task entities.Task
			err  error
		)
		Expect(func() {
			task, err = api.Request(ctx, op, "", entities.TaskCodec, api.Identity[entities.Task])
		}).ToNot(Panic())

		var requestErr *apierror.RequestError
		Expect(errors.As(err, &requestErr)).To(BeTrue())
		Expect(requestErr.Err).To(BeIdenticalTo(networkDown))
		Expect(task.ID.IsZero()).To(BeTrue())
		Expect(testutil.ToFloat64(metrics.RequestCount("unnamed", metrics.OutcomeRequestError))).To(Equal(before + 1))
	})

	It("keeps typed transport errors as they are", func() {
		parseErr := &apierror.JSONParseError{Err: errors.New("invalid character"), Body: []byte("<html>")}
		op := api.OperationFunc[string](func(context.Context, string) (any, error) {
			return nil, parseErr
		})

		_, err := api.Request(ctx, op, "", entities.TaskCodec, api.Identity[entities.Task])
		Expect(err).To(BeIdenticalTo(parseErr))
	})

	It("recovers from a panicking operation", func() {
		op := api.OperationFunc[string](func(context.Context, string) (any, error) {
			panic("boom")
		})

		_, err := api.Request(ctx, op, "", entities.TaskCodec, api.Identity[entities.Task])

		var requestErr *apierror.RequestError
		Expect(errors.As(err, &requestErr)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("boom"))
	})

	It("keeps a panicked error in the chain", func() {
		errSocket := errors.New("socket closed")
		op := api.OperationFunc[string](func(context.Context, string) (any, error) {
			panic(errSocket)
		})

		_, err := api.Request(ctx, op, "", entities.TaskCodec, api.Identity[entities.Task])

		var requestErr *apierror.RequestError
		Expect(errors.As(err, &requestErr)).To(BeTrue())
		Expect(errors.Is(err, errSocket)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("operation panicked: socket closed"))
	})

	It("recovers from a panicking mapping", func() {
		op := respondWith(`{"id": "abc", "name": "Task 1", "riskLevel": "LOW", "libraryTask": {"id": "lt-1"}}`)

		_, err := api.Request(ctx, op, "", entities.TaskCodec, func(entities.Task) int {
			panic("bad mapping")
		})

		var requestErr *apierror.RequestError
		Expect(errors.As(err, &requestErr)).To(BeTrue())
	})

	It("reports the nested path of a missing department name", func() {
		_, err := api.Request(ctx, respondWith(eboPayload(`{"id": "d-1"}`)), "", entities.EboCodec, api.Identity[entities.Ebo])

		var decodeErr *apierror.DecodeError
		Expect(errors.As(err, &decodeErr)).To(BeTrue())
		Expect(decodeErr.HasPath("contents.details.departmentObserved.name")).To(BeTrue())
		Expect(apierror.UserMessage(err)).To(Equal(apierror.MessageDecode))
	})

	It("succeeds once the department name is present", func() {
		ebo, err := api.Request(ctx, respondWith(eboPayload(`{"id": "d-1", "name": "Operations"}`)), "", entities.EboCodec, api.Identity[entities.Ebo])
		Expect(err).ToNot(HaveOccurred())

		details, ok := ebo.Contents.Details.Get()
		Expect(ok).To(BeTrue())
		Expect(details.DepartmentObserved.Name).To(Equal("Operations"))
	})

	It("invokes the operation exactly once", func() {
		calls := 0
		op := api.OperationFunc[int](func(_ context.Context, n int) (any, error) {
			calls++

			return float64(n), nil
		})

		result, err := api.RequestNamed(ctx, "Double", op, 21, codec.Int, func(n int) int { return n * 2 })
		Expect(err).ToNot(HaveOccurred())
		Expect(result).To(Equal(42))
		Expect(calls).To(Equal(1))
	})
})
