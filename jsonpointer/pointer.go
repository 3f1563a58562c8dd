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

// Package jsonpointer implements RFC 6901 JSON Pointers over decoded JSON values.
//
//	doc := map[string]any{"a/b": []any{"x", "y"}}
//	v, err := jsonpointer.Get(doc, "/a~1b/1") // "y"
package jsonpointer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPointer is returned for pointers that are neither empty nor start with "/".
	ErrInvalidPointer = errors.New("invalid JSON pointer")

	// ErrNotFound is returned when a pointer token does not match the document.
	ErrNotFound = errors.New("JSON pointer not found")
)

var (
	escaper   = strings.NewReplacer("~", "~0", "/", "~1")
	unescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// Escape encodes a single reference token.
func Escape(token string) string {
	return escaper.Replace(token)
}

// Unescape decodes a single reference token. "~01" becomes "~1", not "/".
func Unescape(token string) string {
	return unescaper.Replace(token)
}

// Parse splits a pointer into unescaped reference tokens.
// The empty pointer refers to the whole document and yields no tokens.
func Parse(pointer string) ([]string, error) {
	if pointer == "" {
		return nil, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPointer, pointer)
	}

	parts := strings.Split(pointer[1:], "/")
	for i, p := range parts {
		parts[i] = Unescape(p)
	}

	return parts, nil
}

// Format joins tokens into a pointer string.
func Format(tokens ...string) string {
	if len(tokens) == 0 {
		return ""
	}

	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(Escape(t))
	}

	return b.String()
}

// Get resolves pointer against doc.
func Get(doc any, pointer string) (any, error) {
	tokens, err := Parse(pointer)
	if err != nil {
		return nil, err
	}

	return Resolve(doc, tokens)
}

// Resolve walks doc following already unescaped tokens. Objects are indexed by
// key and arrays by non-negative decimal index.
func Resolve(doc any, tokens []string) (any, error) {
	cur := doc
	for i, tok := range tokens {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[tok]
			if !ok {
				return nil, notFound(tokens[:i+1])
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, notFound(tokens[:i+1])
			}
			cur = node[idx]
		default:
			return nil, notFound(tokens[:i+1])
		}
	}

	return cur, nil
}

func notFound(tokens []string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, Format(tokens...))
}
