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

package env_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/worker-safety/safety-client/pkg/env"
)

var _ = Describe("Env", func() {
	const key = "SAFETY_CLIENT_ENV_TEST"

	AfterEach(func() {
		Expect(os.Unsetenv(key)).To(Succeed())
	})

	It("falls back to the default when unset", func() {
		v, err := env.GetAsString(key, false, "fallback")
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal("fallback"))
	})

	It("fails for a missing required variable", func() {
		_, err := env.GetAsString(key, true, "")
		Expect(err).To(MatchError(ContainSubstring(key)))
	})

	DescribeTable("booleans",
		func(raw string, expected bool) {
			GinkgoT().Setenv(key, raw)
			v, err := env.GetAsBool(key, false, !expected)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(expected))
		},
		Entry("true", "true", true),
		Entry("yes", "YES", true),
		Entry("1", "1", true),
		Entry("off", "off", false),
		Entry("0", "0", false),
	)

	It("rejects a malformed boolean", func() {
		GinkgoT().Setenv(key, "maybe")
		_, err := env.GetAsBool(key, false, false)
		Expect(err).To(HaveOccurred())
	})

	It("parses durations", func() {
		GinkgoT().Setenv(key, "1m30s")
		d, err := env.GetAsDuration(key, false, time.Second)
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(Equal(90 * time.Second))
	})

	It("requires absolute http URLs", func() {
		GinkgoT().Setenv(key, "api.example.com/graphql")
		_, err := env.GetAsURL(key, false, "")
		Expect(err).To(HaveOccurred())

		GinkgoT().Setenv(key, "https://api.example.com/graphql")
		v, err := env.GetAsURL(key, false, "")
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal("https://api.example.com/graphql"))
	})
})
