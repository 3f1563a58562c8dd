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

package jsonschema

import (
	"fmt"
	"strings"

	"rivaas.dev/jsonschema/jsonpointer"
	"rivaas.dev/jsonschema/jsonvalue"
)

// Path locates a value inside a JSON document. Segments are object keys
// (string) or array indices (int). The empty path is the document root.
type Path []any

// String formats the path as a chain of subscripts, e.g. ['items'][0]['name'].
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}

	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('[')
		b.WriteString(jsonvalue.Repr(seg))
		b.WriteByte(']')
	}

	return b.String()
}

// Pointer formats the path as an RFC 6901 JSON pointer, e.g. /items/0/name.
func (p Path) Pointer() string {
	tokens := make([]string, len(p))
	for i, seg := range p {
		tokens[i] = fmt.Sprint(seg)
	}

	return jsonpointer.Format(tokens...)
}

// Last returns the final segment, or nil for the root path.
func (p Path) Last() any {
	if len(p) == 0 {
		return nil
	}

	return p[len(p)-1]
}

func (p Path) prepend(seg any) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, seg)

	return append(out, p...)
}

func (p Path) parent() Path {
	if len(p) == 0 {
		return p
	}

	return p[:len(p)-1]
}
