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

package operations_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/worker-safety/safety-client/pkg/operations"
)

var _ = Describe("Catalog", func() {
	var catalog *operations.Catalog

	BeforeEach(func() {
		var err error
		catalog, err = operations.Default()
		Expect(err).ToNot(HaveOccurred())
	})

	It("loads every bundled operation", func() {
		Expect(catalog.Names()).To(ConsistOf(
			operations.Me, operations.GetTask, operations.ListTasks, operations.ListLibraryTasks,
			operations.ListSiteConditions, operations.GetProjectLocation, operations.GetJsb,
			operations.GetEbo, operations.NearestMedicalFacilities, operations.FileUploadPolicies,
			operations.SaveJsb, operations.CompleteJsb, operations.ReopenJsb, operations.DeleteJsb,
			operations.SaveEbo, operations.CompleteEbo, operations.ReopenEbo, operations.DeleteEbo,
		))
	})

	It("records kind and root field", func() {
		op, err := catalog.Get(operations.GetEbo)
		Expect(err).ToNot(HaveOccurred())
		Expect(op.Kind).To(Equal(ast.Query))
		Expect(op.Field).To(Equal("energyBasedObservation"))

		op, err = catalog.Get(operations.DeleteJsb)
		Expect(err).ToNot(HaveOccurred())
		Expect(op.Kind).To(Equal(ast.Mutation))
		Expect(op.Field).To(Equal("deleteJobSafetyBriefing"))
	})

	It("appends the fragments an operation spreads, transitively", func() {
		op, err := catalog.Get(operations.GetTask)
		Expect(err).ToNot(HaveOccurred())
		Expect(op.Document).To(ContainSubstring("fragment TaskFields on Task"))
		Expect(op.Document).To(ContainSubstring("fragment HazardFields on Hazard"))
		Expect(op.Document).To(ContainSubstring("fragment LibraryControlFields on LibraryControl"))
		Expect(op.Document).ToNot(ContainSubstring("fragment EboFields"))
	})

	It("leaves fragment-free documents untouched", func() {
		op, err := catalog.Get(operations.FileUploadPolicies)
		Expect(err).ToNot(HaveOccurred())
		Expect(op.Document).ToNot(ContainSubstring("fragment"))
	})

	It("produces documents that pass schema validation", func() {
		for _, name := range catalog.Names() {
			op, err := catalog.Get(name)
			Expect(err).ToNot(HaveOccurred())
			_, err = catalog.Validate(op.Document)
			Expect(err).ToNot(HaveOccurred(), name)
		}
	})

	It("reports unknown operations", func() {
		_, err := catalog.Get("DropTables")
		Expect(errors.Is(err, operations.ErrUnknownOperation)).To(BeTrue())
	})

	It("rejects documents that select fields the schema lacks", func() {
		_, err := catalog.Compile(`query Broken { me { id shoeSize } }`)
		Expect(err).To(MatchError(ContainSubstring("shoeSize")))
	})

	It("compiles valid ad hoc documents", func() {
		op, err := catalog.Compile(`query WhoAmI { me { id name } }`)
		Expect(err).ToNot(HaveOccurred())
		Expect(op.Name).To(Equal("WhoAmI"))
		Expect(op.Field).To(Equal("me"))
	})
})

var _ = Describe("Parse", func() {
	It("requires a named operation", func() {
		_, err := operations.Parse(`{ me { id } }`)
		Expect(err).To(MatchError(ContainSubstring("named")))
	})

	It("uses the alias as root field when present", func() {
		op, err := operations.Parse(`query Alias { who: me { id } }`)
		Expect(err).ToNot(HaveOccurred())
		Expect(op.Field).To(Equal("who"))
	})
})
