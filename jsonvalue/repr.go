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
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Repr renders v the way validation messages quote values: strings in single
// quotes, null as None, booleans as True/False, and object keys in lexical order.
//
//	Repr("foo")                       // 'foo'
//	Repr([]any{1, "a"})               // [1, 'a']
//	Repr(map[string]any{"a": nil})    // {'a': None}
func Repr(v any) string {
	var b strings.Builder
	writeRepr(&b, v)

	return b.String()
}

func writeRepr(b *strings.Builder, v any) {
	switch n := v.(type) {
	case nil:
		b.WriteString("None")
	case bool:
		if n {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case string:
		b.WriteString(QuoteString(n))
	case json.Number:
		b.WriteString(string(n))
	case float64:
		b.WriteString(formatFloat(n))
	case float32:
		b.WriteString(formatFloat(float64(n)))
	case []any:
		b.WriteString("[")
		for i, e := range n {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, e)
		}
		b.WriteString("]")
	case map[string]any:
		b.WriteString("{")
		for i, k := range SortedKeys(n) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(QuoteString(k))
			b.WriteString(": ")
			writeRepr(b, n[k])
		}
		b.WriteString("}")
	default:
		fmt.Fprint(b, v)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e16:
		return strconv.FormatFloat(f, 'f', -1, 64) + ".0"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// QuoteString quotes s with single quotes, switching to double quotes when s
// contains a single quote but no double quote.
func QuoteString(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteByte(quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case !unicode.IsPrint(r):
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)

	return b.String()
}

// ReprList joins the reprs of values with ", ".
func ReprList(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Repr(v)
	}

	return strings.Join(parts, ", ")
}
