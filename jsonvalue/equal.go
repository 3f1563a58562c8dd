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
	"slices"
	"strconv"
	"strings"
)

// Equal reports whether a and b are the same JSON value.
//
// Numbers compare by value (1 == 1.0), objects ignore key order, and values of
// different kinds are never equal. In particular true != 1 and false != 0.
func Equal(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}

	switch ka {
	case Null:
		return true
	case Boolean:
		return a.(bool) == b.(bool)
	case Number:
		c, ok := Compare(a, b)
		return ok && c == 0
	case String:
		return a.(string) == b.(string)
	case Array:
		aa, ba := a.([]any), b.([]any)
		if len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !Equal(aa[i], ba[i]) {
				return false
			}
		}
		return true
	case Object:
		ao, bo := a.(map[string]any), b.(map[string]any)
		if len(ao) != len(bo) {
			return false
		}
		for k, av := range ao {
			bv, ok := bo[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Contains reports whether list holds a value equal to v.
func Contains(list []any, v any) bool {
	return slices.ContainsFunc(list, func(e any) bool { return Equal(e, v) })
}

// Unique reports whether all elements of list are pairwise distinct under [Equal].
func Unique(list []any) bool {
	seen := make(map[string]struct{}, len(list))
	for _, v := range list {
		key, ok := canonical(v)
		if !ok {
			return uniquePairwise(list)
		}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}

	return true
}

func uniquePairwise(list []any) bool {
	for i := range list {
		for j := i + 1; j < len(list); j++ {
			if Equal(list[i], list[j]) {
				return false
			}
		}
	}

	return true
}

// canonical renders v so that two values share a key exactly when they are Equal.
func canonical(v any) (string, bool) {
	var b strings.Builder
	if !writeCanonical(&b, v) {
		return "", false
	}

	return b.String(), true
}

func writeCanonical(b *strings.Builder, v any) bool {
	switch KindOf(v) {
	case Null:
		b.WriteString("n")
	case Boolean:
		if v.(bool) {
			b.WriteString("t")
		} else {
			b.WriteString("f")
		}
	case Number:
		r, ok := Rat(v)
		if !ok {
			return false
		}
		b.WriteString("#")
		b.WriteString(r.RatString())
	case String:
		b.WriteString("s")
		b.WriteString(strconv.Quote(v.(string)))
	case Array:
		b.WriteString("[")
		for _, e := range v.([]any) {
			if !writeCanonical(b, e) {
				return false
			}
			b.WriteString(",")
		}
		b.WriteString("]")
	case Object:
		m := v.(map[string]any)
		b.WriteString("{")
		for _, k := range SortedKeys(m) {
			b.WriteString(strconv.Quote(k))
			b.WriteString(":")
			if !writeCanonical(b, m[k]) {
				return false
			}
			b.WriteString(",")
		}
		b.WriteString("}")
	default:
		return false
	}

	return true
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}
