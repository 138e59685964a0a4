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

package apierror_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/codec"
)

var _ = Describe("API errors", func() {
	decodeErr := &codec.DecodeError{Issues: codec.Issues{
		{Path: "contents.details.departmentObserved.name", Message: "required field is missing"},
		{Path: "id", Message: `expected EboId, got ""`},
	}}

	Describe("As", func() {
		It("finds each error kind through wrapping", func() {
			for _, err := range []error{
				&apierror.RequestError{Err: errors.New("network down")},
				&apierror.JSONParseError{Err: errors.New("bad"), Body: []byte("<html>")},
				decodeErr,
			} {
				_, ok := apierror.As(fmt.Errorf("outer: %w", err))
				Expect(ok).To(BeTrue())
			}
		})

		It("ignores unrelated errors", func() {
			_, ok := apierror.As(errors.New("plain"))
			Expect(ok).To(BeFalse())
		})
	})

	Describe("NewRequestError", func() {
		It("wraps plain errors", func() {
			err := apierror.NewRequestError(errors.New("network down"), 0)

			var requestErr *apierror.RequestError
			Expect(errors.As(err, &requestErr)).To(BeTrue())
			Expect(requestErr.Err).To(MatchError("network down"))
		})

		It("passes typed errors through", func() {
			Expect(apierror.NewRequestError(decodeErr, 0)).To(BeIdenticalTo(error(decodeErr)))

			parseErr := &apierror.JSONParseError{Err: errors.New("bad")}
			Expect(apierror.NewRequestError(parseErr, 500)).To(BeIdenticalTo(error(parseErr)))
		})
	})

	DescribeTable("Transient",
		func(status int, transient bool) {
			Expect((&apierror.RequestError{Err: errors.New("x"), StatusCode: status}).Transient()).To(Equal(transient))
		},
		Entry("408", 408, true),
		Entry("429", 429, true),
		Entry("503", 503, true),
		Entry("400", 400, false),
		Entry("401", 401, false),
		Entry("no response", 0, false),
	)

	Describe("Verbose", func() {
		It("lists decode issues with their paths", func() {
			msg := apierror.Verbose(decodeErr)
			Expect(msg).To(ContainSubstring("contents.details.departmentObserved.name: required field is missing"))
			Expect(msg).To(ContainSubstring("id: expected EboId"))
		})

		It("includes status and cause of request errors", func() {
			msg := apierror.Verbose(&apierror.RequestError{Err: errors.New("boom"), StatusCode: 502})
			Expect(msg).To(Equal("Request error (status 502): boom"))
		})

		It("shows the start of an unparseable body", func() {
			msg := apierror.Verbose(&apierror.JSONParseError{Err: errors.New("invalid character '<'"), Body: []byte("<html>oops</html>")})
			Expect(msg).To(ContainSubstring("<html>oops</html>"))
		})
	})

	Describe("UserMessage", func() {
		It("reports missing resources as deleted", func() {
			err := &apierror.RequestError{Err: errors.New("Energy based observation abc does not exist")}
			Expect(apierror.UserMessage(err)).To(Equal(apierror.MessageDeleted))
		})

		It("keeps other request errors generic", func() {
			Expect(apierror.UserMessage(&apierror.RequestError{Err: errors.New("network down")})).To(Equal(apierror.MessageRequest))
			Expect(apierror.UserMessage(&apierror.RequestError{Err: errors.New("x"), StatusCode: 503})).To(Equal(apierror.MessageUnavailable))
		})

		It("never leaks field paths", func() {
			msg := apierror.UserMessage(decodeErr)
			Expect(msg).To(Equal(apierror.MessageDecode))
			Expect(msg).ToNot(ContainSubstring("departmentObserved"))
		})

		It("does not sniff decode errors for the deleted case", func() {
			err := &codec.DecodeError{Issues: codec.Issues{{Path: "name", Message: "does not exist"}}}
			Expect(apierror.UserMessage(err)).To(Equal(apierror.MessageDecode))
		})

		It("handles nil and foreign errors", func() {
			Expect(apierror.UserMessage(nil)).To(BeEmpty())
			Expect(apierror.UserMessage(errors.New("x"))).To(Equal(apierror.MessageUnknown))
		})
	})
})
