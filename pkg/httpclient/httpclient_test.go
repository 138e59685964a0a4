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

package httpclient_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/worker-safety/safety-client/pkg/httpclient"
)

var _ = Describe("HTTP clients", func() {
	It("shares one client per TLS mode", func() {
		Expect(httpclient.Shared(false)).To(BeIdenticalTo(httpclient.Shared(false)))
		Expect(httpclient.Shared(true)).ToNot(BeIdenticalTo(httpclient.Shared(false)))
	})

	It("only skips verification when asked to", func() {
		secure := httpclient.New(false, time.Second).Transport.(*http.Transport)
		Expect(secure.TLSClientConfig).To(BeNil())

		insecure := httpclient.New(true, time.Second).Transport.(*http.Transport)
		Expect(insecure.TLSClientConfig.InsecureSkipVerify).To(BeTrue())
	})

	It("uses a dedicated client for custom timeouts", func() {
		Expect(httpclient.For(false, 0)).To(BeIdenticalTo(httpclient.Shared(false)))
		custom := httpclient.For(false, 5*time.Second)
		Expect(custom.Timeout).To(Equal(5 * time.Second))
	})

	DescribeTable("DescribeConnectionError",
		func(err error, hint string) {
			described := httpclient.DescribeConnectionError(err)
			Expect(described.Error()).To(ContainSubstring(hint))
			Expect(errors.Is(described, err)).To(BeTrue())
		},
		Entry("refused", errors.New("dial tcp: connection refused"), "server down"),
		Entry("deadline", context.DeadlineExceeded, "request timed out"),
		Entry("other", errors.New("no route to host"), "no response received"),
	)

	It("truncates long bodies", func() {
		Expect(httpclient.Snippet([]byte(strings.Repeat("x", 500)))).To(HaveLen(203))
		Expect(httpclient.Snippet([]byte("  short \n"))).To(Equal("short"))
	})
})
