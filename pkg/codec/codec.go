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

// Package codec validates untyped JSON values into typed domain values.
//
// A Codec decodes the generic value tree produced by safejson.DecodeValue
// (map[string]any, []any, string, float64, bool, nil) into T, or reports every
// violation it found as an Issue tagged with the dotted field path. Decoding is
// all-or-nothing: a value is only returned when no issue was recorded.
package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Codec converts between wire values and T.
type Codec[T any] interface {
	Decode(raw any, path Path) (T, Issues)
	Encode(v T) any
}

// Path is a dotted field path such as "contents.details.departmentObserved.name".
// Array elements use their index as a segment ("hazards.2.id").
type Path string

func (p Path) Field(name string) Path {
	if p == "" {
		return Path(name)
	}

	return p + "." + Path(name)
}

func (p Path) Index(i int) Path {
	return p.Field(strconv.Itoa(i))
}

func (p Path) String() string {
	if p == "" {
		return "(root)"
	}

	return string(p)
}

// Issue is one violation found while decoding.
type Issue struct {
	Path    Path
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("at path '%s': %s", i.Path, i.Message)
}

type Issues []Issue

// Paths returns the raw dotted path of every issue, in discovery order.
func (is Issues) Paths() []string {
	paths := make([]string, 0, len(is))
	for _, i := range is {
		paths = append(paths, string(i.Path))
	}

	return paths
}

func (is Issues) String() string {
	lines := make([]string, 0, len(is))
	for _, i := range is {
		lines = append(lines, i.String())
	}

	return strings.Join(lines, "; ")
}

// DecodeError aggregates every issue of a failed decode.
type DecodeError struct {
	Issues Issues
}

func (e *DecodeError) Error() string {
	return "decode error: " + e.Issues.String()
}

// HasPath reports whether any issue was recorded at path.
func (e *DecodeError) HasPath(path string) bool {
	for _, i := range e.Issues {
		if string(i.Path) == path {
			return true
		}
	}

	return false
}

// Decode runs c against raw at the root path.
func Decode[T any](c Codec[T], raw any) (T, error) {
	v, issues := c.Decode(raw, "")
	if len(issues) > 0 {
		var zero T

		return zero, &DecodeError{Issues: issues}
	}

	return v, nil
}

func fail(path Path, format string, args ...any) Issues {
	return Issues{{Path: path, Message: fmt.Sprintf(format, args...)}}
}

func expected(path Path, name string, raw any) Issues {
	return fail(path, "expected %s, got %s", name, describe(raw))
}

// describe renders a wire value for an issue message without dumping large payloads.
func describe(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "null"
	case string:
		if len(v) > 40 {
			v = v[:37] + "..."
		}

		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case json.Number:
		return v.String()
	case int, int32, int64:
		return fmt.Sprintf("%d", v)
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", raw)
	}
}

type funcCodec[T any] struct {
	name   string
	decode func(raw any, path Path) (T, Issues)
	encode func(v T) any
}

// New builds a codec from a decode and an encode function.
func New[T any](name string, decode func(raw any, path Path) (T, Issues), encode func(v T) any) Codec[T] {
	return &funcCodec[T]{name: name, decode: decode, encode: encode}
}

func (c *funcCodec[T]) Decode(raw any, path Path) (T, Issues) {
	return c.decode(raw, path)
}

func (c *funcCodec[T]) Encode(v T) any {
	return c.encode(v)
}

func (c *funcCodec[T]) Name() string {
	return c.name
}

// Refine narrows a codec with an additional predicate; the message explains a rejection.
func Refine[T any](name string, base Codec[T], ok func(T) bool, message string) Codec[T] {
	return New(name,
		func(raw any, path Path) (T, Issues) {
			v, issues := base.Decode(raw, path)
			if len(issues) > 0 {
				return v, issues
			}

			if !ok(v) {
				var zero T

				return zero, fail(path, "%s: %s", message, describe(raw))
			}

			return v, nil
		},
		base.Encode,
	)
}
