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

// Package schemacheck verifies that the hand-written codecs read only what
// the GraphQL schema declares. Run by tests and `safetyctl schema check`.
package schemacheck

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/worker-safety/safety-client/pkg/codec"
)

// Drift is one place where a codec and the schema disagree.
type Drift struct {
	// Path is Type.field, e.g. "Task.libraryTask".
	Path    string
	Message string
}

func (d Drift) String() string {
	return fmt.Sprintf("%s: %s", d.Path, d.Message)
}

type DriftError struct {
	Drifts []Drift
}

func (e *DriftError) Error() string {
	lines := make([]string, 0, len(e.Drifts))
	for _, d := range e.Drifts {
		lines = append(lines, d.String())
	}

	return fmt.Sprintf("%d codec/schema mismatches:\n  %s", len(e.Drifts), strings.Join(lines, "\n  "))
}

type checker struct {
	schema  *ast.Schema
	visited map[codec.ObjectShape]bool
	drifts  []Drift
}

// Check walks every shape and the object codecs nested in it. It returns a
// *DriftError listing all mismatches, or nil.
func Check(schema *ast.Schema, shapes ...codec.ObjectShape) error {
	c := &checker{schema: schema, visited: make(map[codec.ObjectShape]bool)}
	for _, shape := range shapes {
		c.object(shape)
	}

	if len(c.drifts) == 0 {
		return nil
	}

	slices.SortFunc(c.drifts, func(a, b Drift) int { return strings.Compare(a.Path, b.Path) })

	return &DriftError{Drifts: slices.Compact(c.drifts)}
}

func (c *checker) add(path, format string, args ...any) {
	c.drifts = append(c.drifts, Drift{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) object(shape codec.ObjectShape) {
	if c.visited[shape] {
		return
	}

	c.visited[shape] = true

	typeName := shape.TypeName()

	def := c.schema.Types[typeName]
	if def == nil {
		c.add(typeName, "type is not declared in the schema")

		return
	}

	if def.Kind != ast.Object && def.Kind != ast.Interface {
		c.add(typeName, "schema type is %s, not an object", strings.ToLower(string(def.Kind)))

		return
	}

	for _, field := range shape.FieldShapes() {
		path := typeName + "." + field.Name

		schemaField := def.Fields.ForName(field.Name)
		if schemaField == nil {
			c.add(path, "field is not declared in the schema")

			continue
		}

		c.field(path, schemaField.Type, unwrap(field.Codec))
	}
}

func (c *checker) field(path string, fieldType *ast.Type, fieldCodec any) {
	named := fieldType.Name()

	switch inner := fieldCodec.(type) {
	case codec.ObjectShape:
		if inner.TypeName() != named {
			c.add(path, "codec decodes %s but the schema returns %s", inner.TypeName(), named)

			return
		}

		c.object(inner)
	case codec.EnumShape:
		c.enum(path, named, inner)
	}
}

func (c *checker) enum(path, named string, shape codec.EnumShape) {
	def := c.schema.Types[named]
	if def == nil || def.Kind != ast.Enum {
		c.add(path, "codec expects enum %s but the schema returns %s", shape.TypeName(), named)

		return
	}

	for _, member := range shape.Members() {
		if def.EnumValues.ForName(member) == nil {
			c.add(path, "enum member %s is not declared in %s", member, named)
		}
	}
}

// unwrap strips list and nullable codecs.
func unwrap(c any) any {
	for {
		w, ok := c.(codec.Wrapper)
		if !ok {
			return c
		}

		c = w.Unwrap()
	}
}
