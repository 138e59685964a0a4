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
	"bytes"
	"slices"

	"github.com/worker-safety/safety-client/pkg/safejson"
)

// Option holds a value that may be absent. Absent options encode as null on the
// wire and ToWire drops them.
type Option[T any] struct {
	value   T
	present bool
}

func Some[T any](v T) Option[T] {
	return Option[T]{value: v, present: true}
}

func None[T any]() Option[T] {
	return Option[T]{}
}

func (o Option[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Option[T]) IsPresent() bool {
	return o.present
}

func (o Option[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}

	return def
}

func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}

	return safejson.Marshal(o.value)
}

func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()

		return nil
	}

	var v T
	if err := safejson.Unmarshal(data, &v); err != nil {
		return err
	}

	*o = Some(v)

	return nil
}

type nullableCodec[T any] struct {
	inner Codec[T]
}

// Nullable maps null (or a missing field) to None and anything else through inner.
func Nullable[T any](inner Codec[T]) Codec[Option[T]] {
	return &nullableCodec[T]{inner: inner}
}

func (c *nullableCodec[T]) Decode(raw any, path Path) (Option[T], Issues) {
	if raw == nil {
		return None[T](), nil
	}

	v, issues := c.inner.Decode(raw, path)
	if len(issues) > 0 {
		return None[T](), issues
	}

	return Some(v), nil
}

func (c *nullableCodec[T]) Encode(v Option[T]) any {
	if inner, ok := v.Get(); ok {
		return c.inner.Encode(inner)
	}

	return nil
}

func (c *nullableCodec[T]) Unwrap() any {
	return c.inner
}

type arrayCodec[T any] struct {
	inner Codec[T]
}

// Array decodes every element through inner. Element issues carry the index
// as a path segment.
func Array[T any](inner Codec[T]) Codec[[]T] {
	return &arrayCodec[T]{inner: inner}
}

func (c *arrayCodec[T]) Decode(raw any, path Path) ([]T, Issues) {
	items, ok := raw.([]any)
	if !ok {
		return nil, expected(path, "array", raw)
	}

	var issues Issues

	out := make([]T, 0, len(items))

	for i, item := range items {
		v, itemIssues := c.inner.Decode(item, path.Index(i))
		if len(itemIssues) > 0 {
			issues = append(issues, itemIssues...)

			continue
		}

		out = append(out, v)
	}

	if len(issues) > 0 {
		return nil, issues
	}

	return out, nil
}

func (c *arrayCodec[T]) Encode(v []T) any {
	out := make([]any, 0, len(v))
	for _, item := range v {
		out = append(out, c.inner.Encode(item))
	}

	return out
}

func (c *arrayCodec[T]) Unwrap() any {
	return c.inner
}

// JSONString decodes a string field that itself contains a JSON document.
func JSONString[T any](inner Codec[T]) Codec[T] {
	return New("JSONString",
		func(raw any, path Path) (T, Issues) {
			var zero T

			s, ok := raw.(string)
			if !ok {
				return zero, expected(path, "JSON string", raw)
			}

			value, err := safejson.DecodeValue([]byte(s))
			if err != nil {
				return zero, fail(path, "expected JSON string: %v", err)
			}

			return inner.Decode(value, path)
		},
		func(v T) any {
			encoded, err := safejson.Marshal(inner.Encode(v))
			if err != nil {
				return nil
			}

			return string(encoded)
		},
	)
}

type dictCodec[T any] struct {
	inner Codec[T]
}

// Dict decodes an object with arbitrary keys, every value through inner.
func Dict[T any](inner Codec[T]) Codec[map[string]T] {
	return &dictCodec[T]{inner: inner}
}

func (c *dictCodec[T]) Decode(raw any, path Path) (map[string]T, Issues) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, expected(path, "object", raw)
	}

	var issues Issues

	out := make(map[string]T, len(obj))

	for _, key := range sortedKeys(obj) {
		v, itemIssues := c.inner.Decode(obj[key], path.Field(key))
		if len(itemIssues) > 0 {
			issues = append(issues, itemIssues...)

			continue
		}

		out[key] = v
	}

	if len(issues) > 0 {
		return nil, issues
	}

	return out, nil
}

func (c *dictCodec[T]) Encode(v map[string]T) any {
	out := make(map[string]any, len(v))
	for k, item := range v {
		out[k] = c.inner.Encode(item)
	}

	return out
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
