// Copyright 2025 The Rivaas Authors
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

package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// ErrUnsupportedValue is returned by [Normalize] for Go values that have no JSON
// representation, such as channels and functions.
var ErrUnsupportedValue = errors.New("unsupported value")

// Normalize converts a decoded document into the closed JSON value model.
//
// Integers of any Go type become json.Number, floats stay float64, maps with
// non-string keys get their keys stringified, times become RFC 3339 strings,
// and byte slices become strings. Structs are round-tripped through
// encoding/json. Values already in the model are returned unchanged in shape.
//
// Errors:
//   - [ErrUnsupportedValue] for channels, functions and other non-data values
func Normalize(v any) (any, error) {
	return normalize(v, "")
}

func normalize(v any, at string) (any, error) {
	switch n := v.(type) {
	case nil, bool, string, json.Number, float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return json.Number(cast.ToString(n)), nil
	case time.Time:
		return n.Format(time.RFC3339Nano), nil
	case []byte:
		return string(n), nil
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			ne, err := normalize(e, at+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			ne, err := normalize(e, at+"/"+k)
			if err != nil {
				return nil, err
			}
			out[k] = ne
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			key, err := cast.ToStringE(k)
			if err != nil {
				return nil, fmt.Errorf("%w: map key %v at %q: %w", ErrUnsupportedValue, k, at, err)
			}
			ne, err := normalize(e, at+"/"+key)
			if err != nil {
				return nil, err
			}
			out[key] = ne
		}
		return out, nil
	case fmt.Stringer:
		if isScalarStringer(n) {
			return n.String(), nil
		}
	}

	return normalizeReflect(v, at)
}

// isScalarStringer reports whether v is a non-container value whose String form
// is its data, like toml.LocalDate.
func isScalarStringer(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Struct, reflect.String:
		_, isJSON := v.(json.Marshaler)
		return !isJSON
	default:
		return false
	}
}

func normalizeReflect(v any, at string) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(rv.Elem().Interface(), at)
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			ne, err := normalize(rv.Index(i).Interface(), at+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, err := cast.ToStringE(iter.Key().Interface())
			if err != nil {
				return nil, fmt.Errorf("%w: map key at %q: %w", ErrUnsupportedValue, at, err)
			}
			ne, err := normalize(iter.Value().Interface(), at+"/"+key)
			if err != nil {
				return nil, err
			}
			out[key] = ne
		}
		return out, nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return json.Number(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return json.Number(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Struct:
		return roundTrip(v, at)
	default:
		return nil, fmt.Errorf("%w: %T at %q", ErrUnsupportedValue, v, at)
	}
}

func roundTrip(v any, at string) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %T at %q: %w", ErrUnsupportedValue, v, at, err)
	}

	return Decode(data)
}

// Decode parses JSON data into the value model, keeping numbers as json.Number.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after top-level value")
	}

	return out, nil
}
