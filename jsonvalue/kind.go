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

import "encoding/json"

// Kind identifies which of the JSON value kinds a Go value represents.
type Kind int

const (
	// Invalid is returned for Go values outside the JSON value model.
	Invalid Kind = iota
	// Null is the JSON null literal (Go nil).
	Null
	// Boolean is true or false.
	Boolean
	// Number is any JSON number, integral or not.
	Number
	// String is a JSON string.
	String
	// Array is an ordered list ([]any).
	Array
	// Object is a string-keyed mapping (map[string]any).
	Object
)

var kindNames = [...]string{
	Invalid: "invalid",
	Null:    "null",
	Boolean: "boolean",
	Number:  "number",
	String:  "string",
	Array:   "array",
	Object:  "object",
}

// String returns the JSON Schema name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[Invalid]
	}

	return kindNames[k]
}

// KindOf reports the kind of v.
//
// Booleans are always [Boolean], never [Number].
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return Null
	case bool:
		return Boolean
	case json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Number
	case string:
		return String
	case []any:
		return Array
	case map[string]any:
		return Object
	default:
		return Invalid
	}
}

// IsNumber reports whether v is a JSON number.
func IsNumber(v any) bool {
	return KindOf(v) == Number
}

// IsBool reports whether v is a JSON boolean.
func IsBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

// AsObject returns v as an object when it is one.
func AsObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// AsArray returns v as an array when it is one.
func AsArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// AsString returns v as a string when it is one.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
