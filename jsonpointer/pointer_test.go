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

//go:build !integration

package jsonpointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeRoundTrip(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a~1b~0c", Escape("a/b~c"))
	assert.Equal(t, "a/b~c", Unescape("a~1b~0c"))
	assert.Equal(t, "~1", Unescape("~01"))
}

func TestParse(t *testing.T) {
	t.Parallel()

	tokens, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, tokens)

	tokens, err = Parse("/")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, tokens)

	tokens, err = Parse("/a~1b/0")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b", "0"}, tokens)

	_, err = Parse("a")
	require.ErrorIs(t, err, ErrInvalidPointer)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Format())
	assert.Equal(t, "/a~1b/0", Format("a/b", "0"))
}

func TestGet(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"foo":  []any{"bar", "baz"},
		"":     0,
		"a/b":  1,
		"m~n":  8,
		"deep": map[string]any{"x": map[string]any{"y": true}},
	}

	tests := []struct {
		name    string
		pointer string
		want    any
		wantErr error
	}{
		{name: "whole document", pointer: "", want: doc},
		{name: "array", pointer: "/foo", want: []any{"bar", "baz"}},
		{name: "array index", pointer: "/foo/0", want: "bar"},
		{name: "empty key", pointer: "/", want: 0},
		{name: "escaped slash", pointer: "/a~1b", want: 1},
		{name: "escaped tilde", pointer: "/m~0n", want: 8},
		{name: "nested", pointer: "/deep/x/y", want: true},
		{name: "missing key", pointer: "/nope", wantErr: ErrNotFound},
		{name: "index out of range", pointer: "/foo/2", wantErr: ErrNotFound},
		{name: "non numeric index", pointer: "/foo/x", wantErr: ErrNotFound},
		{name: "through scalar", pointer: "/a~1b/c", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Get(doc, tt.pointer)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
