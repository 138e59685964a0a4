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

package sentry

import (
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reporting", func() {
	BeforeEach(func() {
		shouldDebounce = true
		lastSentMu.Lock()
		lastSent = make(map[string]time.Time)
		lastSentMu.Unlock()
	})

	It("titles an issue by its first clause", func() {
		Expect(errorTitle(errors.New("decode error: at path 'id'"))).To(Equal("decode error"))
		Expect(errorTitle(errors.New(strings.Repeat("x", 150)))).To(HaveLen(100))
	})

	It("debounces repeated issues with the same title", func() {
		err := errors.New("request error: 503")
		Expect(debounced(IssueTypeError, err)).To(BeFalse())
		Expect(debounced(IssueTypeError, err)).To(BeTrue())
		Expect(debounced(IssueTypeWarning, err)).To(BeFalse())
	})

	It("never debounces in test mode", func() {
		EnableTestMode()
		err := errors.New("request error: 503")
		Expect(debounced(IssueTypeError, err)).To(BeFalse())
		Expect(debounced(IssueTypeError, err)).To(BeFalse())
	})

	It("puts scalar context into tags and the operation into the fingerprint", func() {
		event := createEventWithContext("error", errors.New("boom"), map[string]interface{}{
			"operation": "GetTask",
			"status":    503,
			"issues":    []string{"id"},
		})
		Expect(event.Tags).To(HaveKeyWithValue("operation", "GetTask"))
		Expect(event.Tags).To(HaveKeyWithValue("status", "503"))
		Expect(event.Extra).To(HaveKey("issues"))
		Expect(event.Fingerprint).To(ContainElement("operation: GetTask"))
	})

	It("does not panic when reporting without a logger", func() {
		Expect(func() { ReportIssuef(IssueTypeWarning, nil, "schema drift in %s", "Task") }).ToNot(Panic())
	})
})
