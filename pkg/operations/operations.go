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

// Package operations bundles the API schema and the GraphQL documents this
// client sends. Documents are validated against the schema when the catalog
// loads, so an invalid document never reaches the network.
package operations

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

//go:embed schema.graphql
var schemaSource string

//go:embed documents/*.graphql
var documents embed.FS

const fragmentsFile = "documents/fragments.graphql"

// Operation names shipped with the client.
const (
	Me                       = "Me"
	GetTask                  = "GetTask"
	ListTasks                = "ListTasks"
	ListLibraryTasks         = "ListLibraryTasks"
	ListSiteConditions       = "ListSiteConditions"
	GetProjectLocation       = "GetProjectLocation"
	GetJsb                   = "GetJsb"
	GetEbo                   = "GetEbo"
	NearestMedicalFacilities = "NearestMedicalFacilities"
	FileUploadPolicies       = "FileUploadPolicies"
	SaveJsb                  = "SaveJsb"
	CompleteJsb              = "CompleteJsb"
	ReopenJsb                = "ReopenJsb"
	DeleteJsb                = "DeleteJsb"
	SaveEbo                  = "SaveEbo"
	CompleteEbo              = "CompleteEbo"
	ReopenEbo                = "ReopenEbo"
	DeleteEbo                = "DeleteEbo"
)

var ErrUnknownOperation = errors.New("unknown operation")

// Operation is a single named GraphQL operation ready to send.
type Operation struct {
	Name string
	Kind ast.Operation
	// Field is the root field the operation selects; its value is the
	// operation's result inside the response data.
	Field    string
	Document string
}

// Catalog holds the schema and every bundled operation.
type Catalog struct {
	schema     *ast.Schema
	operations map[string]Operation
}

var defaultCatalog = sync.OnceValues(Load)

// Default returns the catalog built from the embedded documents.
func Default() (*Catalog, error) {
	return defaultCatalog()
}

// LoadSchema parses the embedded schema.
func LoadSchema() (*ast.Schema, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSource})
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	return schema, nil
}

// Load parses the schema and all documents. Shared fragments are appended to
// each operation that spreads them, directly or through another fragment.
func Load() (*Catalog, error) {
	schema, err := LoadSchema()
	if err != nil {
		return nil, err
	}

	fragments, err := loadFragments()
	if err != nil {
		return nil, err
	}

	entries, err := documents.ReadDir("documents")
	if err != nil {
		return nil, err
	}

	catalog := &Catalog{schema: schema, operations: make(map[string]Operation)}

	for _, entry := range entries {
		file := path.Join("documents", entry.Name())
		if file == fragmentsFile {
			continue
		}

		source, err := documents.ReadFile(file)
		if err != nil {
			return nil, err
		}

		document, err := withFragments(file, string(source), fragments)
		if err != nil {
			return nil, err
		}

		op, err := catalog.compile(document)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}

		if want := strings.TrimSuffix(entry.Name(), ".graphql"); op.Name != want {
			return nil, fmt.Errorf("%s: operation is named %q, expected %q", file, op.Name, want)
		}

		catalog.operations[op.Name] = op
	}

	return catalog, nil
}

func (c *Catalog) Schema() *ast.Schema {
	return c.schema
}

func (c *Catalog) Get(name string) (Operation, error) {
	op, ok := c.operations[name]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}

	return op, nil
}

// Names lists the operation names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.operations))
	for name := range c.operations {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Validate checks a document against the schema.
func (c *Catalog) Validate(document string) (*ast.QueryDocument, error) {
	doc, errs := gqlparser.LoadQuery(c.schema, document)
	if len(errs) > 0 {
		return nil, errs
	}

	return doc, nil
}

// Compile validates an ad hoc document holding exactly one named operation.
func (c *Catalog) Compile(document string) (Operation, error) {
	return c.compile(document)
}

func (c *Catalog) compile(document string) (Operation, error) {
	doc, err := c.Validate(document)
	if err != nil {
		return Operation{}, err
	}

	return describe(doc, document)
}

// Parse builds an Operation from a document without schema validation.
func Parse(document string) (Operation, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "document", Input: document})
	if err != nil {
		return Operation{}, err
	}

	return describe(doc, document)
}

func describe(doc *ast.QueryDocument, document string) (Operation, error) {
	if len(doc.Operations) != 1 {
		return Operation{}, fmt.Errorf("expected exactly one operation, found %d", len(doc.Operations))
	}

	def := doc.Operations[0]
	if def.Name == "" {
		return Operation{}, errors.New("operation must be named")
	}

	op := Operation{Name: def.Name, Kind: def.Operation, Document: document}

	if len(def.SelectionSet) > 0 {
		if field, ok := def.SelectionSet[0].(*ast.Field); ok {
			op.Field = field.Alias
			if op.Field == "" {
				op.Field = field.Name
			}
		}
	}

	return op, nil
}

func loadFragments() (map[string]*ast.FragmentDefinition, error) {
	source, err := documents.ReadFile(fragmentsFile)
	if err != nil {
		return nil, err
	}

	doc, err := parser.ParseQuery(&ast.Source{Name: fragmentsFile, Input: string(source)})
	if err != nil {
		return nil, fmt.Errorf("parse fragments: %w", err)
	}

	fragments := make(map[string]*ast.FragmentDefinition, len(doc.Fragments))
	for _, f := range doc.Fragments {
		fragments[f.Name] = f
	}

	return fragments, nil
}

func withFragments(file, source string, fragments map[string]*ast.FragmentDefinition) (string, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: file, Input: source})
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", file, err)
	}

	used := map[string]bool{}

	var walk func(set ast.SelectionSet) error

	walk = func(set ast.SelectionSet) error {
		for _, sel := range set {
			switch s := sel.(type) {
			case *ast.Field:
				if err := walk(s.SelectionSet); err != nil {
					return err
				}
			case *ast.InlineFragment:
				if err := walk(s.SelectionSet); err != nil {
					return err
				}
			case *ast.FragmentSpread:
				if used[s.Name] {
					continue
				}

				frag, ok := fragments[s.Name]
				if !ok {
					return fmt.Errorf("%s: unknown fragment %s", file, s.Name)
				}

				used[s.Name] = true

				if err := walk(frag.SelectionSet); err != nil {
					return err
				}
			}
		}

		return nil
	}

	for _, op := range doc.Operations {
		if err := walk(op.SelectionSet); err != nil {
			return "", err
		}
	}

	if len(used) == 0 {
		return source, nil
	}

	names := make([]string, 0, len(used))
	for name := range used {
		names = append(names, name)
	}

	slices.Sort(names)

	extra := &ast.QueryDocument{}
	for _, name := range names {
		extra.Fragments = append(extra.Fragments, fragments[name])
	}

	var buf bytes.Buffer

	buf.WriteString(strings.TrimRight(source, "\n"))
	buf.WriteString("\n\n")
	formatter.NewFormatter(&buf).FormatQueryDocument(extra)

	return buf.String(), nil
}
