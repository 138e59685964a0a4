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

package codec

import (
	"fmt"

	"github.com/worker-safety/safety-client/pkg/logger"
)

// FieldShape describes one field an object codec reads.
type FieldShape struct {
	Name     string
	Required bool
	// Codec is the field codec, typed as any because field types differ.
	Codec any
}

// ObjectShape is implemented by codecs that decode a GraphQL object type.
type ObjectShape interface {
	TypeName() string
	FieldShapes() []FieldShape
}

// EnumShape is implemented by codecs that decode a GraphQL enum.
type EnumShape interface {
	TypeName() string
	Members() []string
}

// Wrapper is implemented by list and nullable codecs.
type Wrapper interface {
	Unwrap() any
}

// Fields is handed to an object builder. The field helpers read from it and
// record issues instead of returning errors, so a builder reads like a struct
// literal.
type Fields struct {
	obj    map[string]any
	path   Path
	issues Issues

	probe  bool
	shapes []FieldShape
}

func (f *Fields) lookup(name string, required bool, c any) (any, Path, bool) {
	if f.probe {
		f.shapes = append(f.shapes, FieldShape{Name: name, Required: required, Codec: c})

		return nil, "", false
	}

	raw, ok := f.obj[name]

	return raw, f.path.Field(name), ok
}

// Required decodes a field that must be present.
func Required[T any](f *Fields, name string, c Codec[T]) T {
	var zero T

	raw, path, ok := f.lookup(name, true, c)
	if f.probe {
		return zero
	}

	if !ok {
		f.issues = append(f.issues, Issue{Path: path, Message: "required field is missing"})

		return zero
	}

	v, issues := c.Decode(raw, path)
	f.issues = append(f.issues, issues...)

	return v
}

// Optional decodes a field that may be missing or null.
func Optional[T any](f *Fields, name string, c Codec[T]) Option[T] {
	raw, path, ok := f.lookup(name, false, c)
	if f.probe || !ok || raw == nil {
		return None[T]()
	}

	v, issues := c.Decode(raw, path)
	if len(issues) > 0 {
		f.issues = append(f.issues, issues...)

		return None[T]()
	}

	return Some(v)
}

// OptionalOr is Optional with a fallback for missing or null fields.
func OptionalOr[T any](f *Fields, name string, c Codec[T], def T) T {
	return Optional(f, name, c).OrElse(def)
}

// ObjectCodec decodes a JSON object into T through a builder function.
type ObjectCodec[T any] struct {
	typeName string
	build    func(f *Fields) T
}

func Object[T any](typeName string, build func(f *Fields) T) *ObjectCodec[T] {
	return &ObjectCodec[T]{typeName: typeName, build: build}
}

func (c *ObjectCodec[T]) Decode(raw any, path Path) (T, Issues) {
	var zero T

	obj, ok := raw.(map[string]any)
	if !ok {
		return zero, expected(path, c.typeName, raw)
	}

	f := &Fields{obj: obj, path: path}

	v := c.build(f)
	if len(f.issues) > 0 {
		return zero, f.issues
	}

	return v, nil
}

// Encode returns the wire map of v; entities marshal through their json tags.
// Encode satisfies Codec, which has no error return: a value that cannot be
// encoded is logged and encoded as nil. Use EncodeWire to get the error.
func (c *ObjectCodec[T]) Encode(v T) any {
	wire, err := c.EncodeWire(v)
	if err != nil {
		logger.For(logger.ComponentCodec).Errorf("Failed to encode %s: %v", c.typeName, err)

		return nil
	}

	return wire
}

// EncodeWire converts v to its wire form.
func (c *ObjectCodec[T]) EncodeWire(v T) (any, error) {
	wire, err := ToWire(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.typeName, err)
	}

	return wire, nil
}

func (c *ObjectCodec[T]) TypeName() string {
	return c.typeName
}

// FieldShapes runs the builder in probe mode and reports every field it reads.
func (c *ObjectCodec[T]) FieldShapes() []FieldShape {
	f := &Fields{probe: true}
	c.build(f)

	return f.shapes
}
