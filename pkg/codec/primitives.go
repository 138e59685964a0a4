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
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// String accepts any JSON string.
var String = New("string",
	func(raw any, path Path) (string, Issues) {
		s, ok := raw.(string)
		if !ok {
			return "", expected(path, "string", raw)
		}

		return s, nil
	},
	func(v string) any { return v },
)

// NonEmptyString accepts any string of at least one byte.
var NonEmptyString = Refine("NonEmptyString", String,
	func(s string) bool { return s != "" },
	"expected non-empty string",
)

var Bool = New("boolean",
	func(raw any, path Path) (bool, Issues) {
		b, ok := raw.(bool)
		if !ok {
			return false, expected(path, "boolean", raw)
		}

		return b, nil
	},
	func(v bool) any { return v },
)

var Float = New("number",
	func(raw any, path Path) (float64, Issues) {
		f, ok := toFloat(raw)
		if !ok {
			return 0, expected(path, "number", raw)
		}

		return f, nil
	},
	func(v float64) any { return v },
)

var Int = New("integer",
	func(raw any, path Path) (int, Issues) {
		f, ok := toFloat(raw)
		if !ok || math.Trunc(f) != f || f > math.MaxInt32 || f < math.MinInt32 {
			return 0, expected(path, "integer", raw)
		}

		return int(f), nil
	},
	func(v int) any { return v },
)

// Decimal is a number carried on the wire as a string, as the Decimal scalar
// does for coordinates and distances.
type Decimal float64

func (d Decimal) Float64() float64 {
	return float64(d)
}

func (d Decimal) String() string {
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}

func (d Decimal) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Decimal) UnmarshalText(data []byte) error {
	f, err := parseFinite(string(data))
	if err != nil {
		return err
	}

	*d = Decimal(f)

	return nil
}

// NumberFromString accepts a string holding a finite number.
var NumberFromString = New("NumberFromString",
	func(raw any, path Path) (Decimal, Issues) {
		s, ok := raw.(string)
		if !ok {
			return 0, expected(path, "NumberFromString", raw)
		}

		f, err := parseFinite(s)
		if err != nil {
			return 0, expected(path, "NumberFromString", raw)
		}

		return Decimal(f), nil
	},
	func(v Decimal) any { return v.String() },
)

var errNotFinite = errors.New("number is not finite")

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}

	return f, nil
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()

		return f, err == nil
	default:
		return 0, false
	}
}

// EnumCodec accepts exactly the declared members of a GraphQL enum.
type EnumCodec[E ~string] struct {
	typeName string
	members  []E
}

func Enum[E ~string](typeName string, members ...E) *EnumCodec[E] {
	return &EnumCodec[E]{typeName: typeName, members: members}
}

func (c *EnumCodec[E]) Decode(raw any, path Path) (E, Issues) {
	s, ok := raw.(string)
	if ok {
		for _, m := range c.members {
			if string(m) == s {
				return m, nil
			}
		}
	}

	return "", fail(path, "expected one of %s, got %s", c.describeMembers(), describe(raw))
}

func (c *EnumCodec[E]) Encode(v E) any {
	return string(v)
}

func (c *EnumCodec[E]) TypeName() string {
	return c.typeName
}

// Members lists the accepted values in declaration order.
func (c *EnumCodec[E]) Members() []string {
	out := make([]string, 0, len(c.members))
	for _, m := range c.members {
		out = append(out, string(m))
	}

	return out
}

func (c *EnumCodec[E]) describeMembers() string {
	return c.typeName + "(" + strings.Join(c.Members(), "|") + ")"
}
