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

package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/metrics"
)

type staticProvider struct{ info any }

func (s staticProvider) GetDebugInfo() interface{} { return s.info }

var _ = Describe("Metrics", func() {
	DescribeTable("Outcome",
		func(err error, outcome string) {
			Expect(metrics.Outcome(err)).To(Equal(outcome))
		},
		Entry("success", nil, metrics.OutcomeSuccess),
		Entry("request error", &apierror.RequestError{Err: errors.New("x")}, metrics.OutcomeRequestError),
		Entry("parse error", &apierror.JSONParseError{Err: errors.New("x")}, metrics.OutcomeJSONParseError),
		Entry("decode error", &codec.DecodeError{}, metrics.OutcomeDecodeError),
		Entry("anything else", errors.New("x"), metrics.OutcomeOtherError),
	)

	It("counts requests per operation and outcome", func() {
		before := testutil.ToFloat64(metrics.RequestCount("MetricsTestOp", metrics.OutcomeRequestError))

		metrics.ObserveRequest("MetricsTestOp", &apierror.RequestError{Err: errors.New("down")}, 20*time.Millisecond)
		metrics.ObserveRequest("MetricsTestOp", nil, 10*time.Millisecond)

		Expect(testutil.ToFloat64(metrics.RequestCount("MetricsTestOp", metrics.OutcomeRequestError))).To(Equal(before + 1))
		Expect(testutil.ToFloat64(metrics.RequestCount("MetricsTestOp", metrics.OutcomeSuccess))).To(BeNumerically(">=", 1))
	})

	It("serves prometheus metrics and registered debug providers", func() {
		metrics.RegisterDebugProvider("test", staticProvider{info: map[string]int{"p95Ms": 12}})
		DeferCleanup(metrics.UnregisterDebugProvider, "test")

		server := httptest.NewServer(metrics.Handler())
		DeferCleanup(server.Close)

		resp, err := http.Get(server.URL + "/debug/latency")
		Expect(err).ToNot(HaveOccurred())
		body, err := io.ReadAll(resp.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Body.Close()).To(Succeed())
		Expect(string(body)).To(ContainSubstring(`"p95Ms": 12`))

		metrics.ObserveHTTPResponse(metrics.TransportGraphQL, 200)

		resp, err = http.Get(server.URL + "/metrics")
		Expect(err).ToNot(HaveOccurred())
		body, err = io.ReadAll(resp.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Body.Close()).To(Succeed())
		Expect(string(body)).To(ContainSubstring("safety_client_http_responses_total"))
	})
})
