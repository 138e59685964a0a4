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

// Package safejson wraps goccy/go-json and falls back to encoding/json whenever
// goccy panics on an unusual payload.
package safejson

import (
	"bytes"
	"encoding/base64"
	jsonstd "encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Unmarshal decodes val into decoded, which must be a non-nil pointer.
func Unmarshal(val []byte, decoded any) (err error) {
	valuePtr := reflect.ValueOf(decoded)
	if !valuePtr.IsValid() || valuePtr.Kind() != reflect.Ptr || valuePtr.IsNil() {
		return errors.New("decoded must be a non-nil pointer")
	}

	defer func() {
		if r := recover(); r != nil {
			zap.S().Warnf("goccy failed to decode, falling back to stdlib: %v (payload: %s)", r, base64.StdEncoding.EncodeToString(val))

			target := reflect.New(valuePtr.Elem().Type())

			err = jsonstd.Unmarshal(val, target.Interface())
			if err == nil {
				valuePtr.Elem().Set(target.Elem())
			} else {
				err = fmt.Errorf("decode after goccy panic: %w", err)
			}
		}
	}()

	if valuePtr.Elem().Kind() != reflect.Struct {
		return jsonstd.Unmarshal(val, decoded)
	}

	target := reflect.New(valuePtr.Elem().Type())

	err = json.Unmarshal(val, target.Interface())
	if err == nil {
		valuePtr.Elem().Set(target.Elem())
	}

	return err
}

// DecodeValue decodes an arbitrary JSON document into the generic value tree
// (map[string]any, []any, string, float64, bool, nil) consumed by the codecs.
// Trailing data after the first value is rejected.
func DecodeValue(val []byte) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Warnf("goccy failed to decode value, falling back to stdlib: %v", r)

			value, err = decodeValueStd(val)
		}
	}()

	dec := json.NewDecoder(bytes.NewReader(val))
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}

	if dec.More() {
		return nil, errors.New("unexpected data after top-level JSON value")
	}

	return value, nil
}

func decodeValueStd(val []byte) (any, error) {
	var value any

	dec := jsonstd.NewDecoder(bytes.NewReader(val))
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}

	if dec.More() {
		return nil, errors.New("unexpected data after top-level JSON value")
	}

	return value, nil
}

// Marshal encodes val with goccy, using the stdlib encoder if goccy panics.
func Marshal(val any) (encoded []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Warnf("goccy failed to encode, falling back to stdlib: %v", r)

			encoded, err = jsonstd.Marshal(val)
		}
	}()

	return json.Marshal(val)
}

// MarshalIndent is Marshal with indentation, used for human-facing output.
func MarshalIndent(val any, prefix, indent string) (encoded []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Warnf("goccy failed to encode, falling back to stdlib: %v", r)

			encoded, err = jsonstd.MarshalIndent(val, prefix, indent)
		}
	}()

	return json.MarshalIndent(val, prefix, indent)
}

// MustMarshal panics on encode failure. Only for values known to be encodable.
func MustMarshal(val any) []byte {
	encoded, err := Marshal(val)
	if err != nil {
		panic(err)
	}

	return encoded
}
