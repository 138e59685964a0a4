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

package schemacheck_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/entities"
	"github.com/worker-safety/safety-client/pkg/operations"
	"github.com/worker-safety/safety-client/pkg/schemacheck"
)

type severity string

type drifted struct {
	Name     string
	Nickname string
}

func drifts(err error) []string {
	var driftErr *schemacheck.DriftError
	Expect(errors.As(err, &driftErr)).To(BeTrue())

	paths := make([]string, 0, len(driftErr.Drifts))
	for _, d := range driftErr.Drifts {
		paths = append(paths, d.Path)
	}

	return paths
}

var _ = Describe("Check", func() {
	var schema *ast.Schema

	BeforeEach(func() {
		var err error
		schema, err = operations.LoadSchema()
		Expect(err).ToNot(HaveOccurred())
	})

	It("accepts every bundled codec", func() {
		Expect(schemacheck.CheckBundled()).To(Succeed())
	})

	It("accepts the entity codecs one by one", func() {
		for _, shape := range entities.Shapes() {
			Expect(schemacheck.Check(schema, shape)).To(Succeed(), shape.TypeName())
		}
	})

	It("flags fields the schema does not declare", func() {
		task := codec.Object("Task", func(f *codec.Fields) drifted {
			return drifted{
				Name:     codec.Required(f, "name", codec.String),
				Nickname: codec.Required(f, "nickname", codec.String),
			}
		})

		Expect(drifts(schemacheck.Check(schema, task))).To(ConsistOf("Task.nickname"))
	})

	It("follows nested codecs through lists and nullables", func() {
		control := codec.Object("Control", func(f *codec.Fields) string {
			return codec.Required(f, "colour", codec.String)
		})
		hazard := codec.Object("Hazard", func(f *codec.Fields) []codec.Option[string] {
			return codec.Required(f, "controls", codec.Array(codec.Nullable(control)))
		})

		Expect(drifts(schemacheck.Check(schema, hazard))).To(ConsistOf("Control.colour"))
	})

	It("flags a nested codec bound to the wrong type", func() {
		task := codec.Object("Task", func(f *codec.Fields) entities.Hazard {
			return codec.Required(f, "libraryTask", entities.HazardCodec)
		})

		err := schemacheck.Check(schema, task)
		Expect(drifts(err)).To(ConsistOf("Task.libraryTask"))
		Expect(err.Error()).To(ContainSubstring("codec decodes Hazard but the schema returns LibraryTask"))
	})

	It("flags enum members missing from the schema", func() {
		level := codec.Enum[severity]("RiskLevel", "LOW", "EXTREME")
		task := codec.Object("Task", func(f *codec.Fields) severity {
			return codec.Required(f, "riskLevel", codec.Codec[severity](level))
		})

		err := schemacheck.Check(schema, task)
		Expect(drifts(err)).To(ConsistOf("Task.riskLevel"))
		Expect(err.Error()).To(ContainSubstring("EXTREME"))
	})

	It("flags unknown types", func() {
		ghost := codec.Object("Ghost", func(f *codec.Fields) string {
			return codec.Required(f, "id", codec.String)
		})

		Expect(drifts(schemacheck.Check(schema, ghost))).To(ConsistOf("Ghost"))
	})
})
