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

	"github.com/worker-safety/safety-client/pkg/safejson"
)

// ToWire converts a Go value (entity or mutation input) into the generic wire
// tree. Object keys whose value is null are dropped, so absent options never
// reach the server as explicit nulls.
func ToWire(v any) (any, error) {
	encoded, err := safejson.Marshal(v)
	if err != nil {
		return nil, err
	}

	value, err := safejson.DecodeValue(encoded)
	if err != nil {
		return nil, err
	}

	return stripNulls(value), nil
}

// ToWireMap is ToWire for values that must encode as an object, such as
// operation variables.
func ToWireMap(v any) (map[string]any, error) {
	wire, err := ToWire(v)
	if err != nil {
		return nil, err
	}

	m, ok := wire.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object value, got %s", describe(wire))
	}

	return m, nil
}

func stripNulls(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for k, item := range v {
			if item == nil {
				delete(v, k)

				continue
			}

			v[k] = stripNulls(item)
		}

		return v
	case []any:
		for i, item := range v {
			v[i] = stripNulls(item)
		}

		return v
	default:
		return value
	}
}
