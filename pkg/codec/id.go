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
	"errors"
	"fmt"
	"strings"

	"github.com/worker-safety/safety-client/pkg/safejson"
)

// Kind names an identifier family. Kinds are empty marker types so that
// ID[TaskKind] and ID[HazardKind] are distinct, non-assignable types.
type Kind interface {
	KindName() string
}

// ID is an opaque, non-empty identifier branded with its kind.
type ID[K Kind] struct {
	value string
}

var ErrEmptyID = errors.New("identifier must be a non-empty string")

func NewID[K Kind](s string) (ID[K], error) {
	if s == "" {
		var k K

		return ID[K]{}, fmt.Errorf("%s: %w", k.KindName(), ErrEmptyID)
	}

	return ID[K]{value: s}, nil
}

// MustID panics on an empty identifier. Only for literals and tests.
func MustID[K Kind](s string) ID[K] {
	id, err := NewID[K](s)
	if err != nil {
		panic(err)
	}

	return id
}

func (id ID[K]) String() string {
	return id.value
}

// IsZero reports whether the identifier was never assigned, e.g. an unsaved form.
func (id ID[K]) IsZero() bool {
	return id.value == ""
}

func (id ID[K]) Compare(other ID[K]) int {
	return strings.Compare(id.value, other.value)
}

// MarshalJSON writes the zero identifier as null so ToWire drops it.
func (id ID[K]) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}

	return safejson.Marshal(id.value)
}

func (id *ID[K]) UnmarshalJSON(data []byte) error {
	var s string
	if err := safejson.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := NewID[K](s)
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}

// Branded decodes a non-empty string into an identifier of kind K.
func Branded[K Kind]() Codec[ID[K]] {
	var k K

	name := k.KindName()

	return New(name,
		func(raw any, path Path) (ID[K], Issues) {
			s, ok := raw.(string)
			if !ok || s == "" {
				return ID[K]{}, expected(path, name, raw)
			}

			return ID[K]{value: s}, nil
		},
		func(v ID[K]) any {
			if v.IsZero() {
				return nil
			}

			return v.value
		},
	)
}
