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

package safejson_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/worker-safety/safety-client/pkg/safejson"
)

type wrapper struct {
	Inner *inner `json:"inner"`
	Other string `json:"other,omitempty"`
}

type inner struct {
	Key string `json:"key"`
}

var _ = Describe("SafeJSON", func() {
	Context("Unmarshal", func() {
		It("decodes into a struct", func() {
			var w wrapper
			Expect(safejson.Unmarshal([]byte(`{"inner":{"key":"v"}}`), &w)).To(Succeed())
			Expect(w.Inner).ToNot(BeNil())
			Expect(w.Inner.Key).To(Equal("v"))
		})

		It("rejects a nil receiver", func() {
			var m map[string]any
			Expect(safejson.Unmarshal([]byte(`{"k":"v"}`), m)).ToNot(Succeed())
		})

		It("reports malformed input", func() {
			var w wrapper
			Expect(safejson.Unmarshal([]byte(`{"inner":`), &w)).ToNot(Succeed())
		})
	})

	Context("DecodeValue", func() {
		It("produces the generic value tree", func() {
			v, err := safejson.DecodeValue([]byte(`{"a":[1,"x",true,null],"b":{"c":1.5}}`))
			Expect(err).ToNot(HaveOccurred())

			m, ok := v.(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(m["a"]).To(Equal([]any{float64(1), "x", true, nil}))
			Expect(m["b"]).To(Equal(map[string]any{"c": 1.5}))
		})

		It("rejects trailing data", func() {
			_, err := safejson.DecodeValue([]byte(`{"a":1} {"b":2}`))
			Expect(err).To(HaveOccurred())
		})

		It("rejects non-JSON bodies", func() {
			_, err := safejson.DecodeValue([]byte(`<html>502 Bad Gateway</html>`))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("Marshal", func() {
		It("omits empty fields tagged omitempty", func() {
			out, err := safejson.Marshal(wrapper{Inner: &inner{Key: "v"}})
			Expect(err).ToNot(HaveOccurred())
			Expect(string(out)).To(Equal(`{"inner":{"key":"v"}}`))
		})
	})
})
