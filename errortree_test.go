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

package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTree(t *testing.T) {
	t.Parallel()

	errs := errorsFor(t, `{
		"properties": {
			"items": {"items": {"properties": {"name": {"type": "string", "minLength": 2}}}}
		},
		"required": ["x"]
	}`, `{"items": [{"name": ""}, {"name": 1}]}`)

	tree := NewErrorTree(errs...)
	assert.Equal(t, 3, tree.TotalErrors())
	assert.Equal(t, 1, tree.Len())

	root, ok := tree.ErrorFor("required")
	require.True(t, ok)
	assert.Equal(t, "'x' is a required property", root.Message)

	items := tree.Child("items")
	assert.True(t, tree.Contains("items"))
	assert.True(t, items.Contains(0))
	assert.True(t, items.Contains(1))
	assert.False(t, items.Contains(2))
	assert.Empty(t, items.Errors())

	first, ok := items.Child(0).Child("name").ErrorFor("minLength")
	require.True(t, ok)
	assert.Equal(t, "'' is too short", first.Message)

	second := items.Child(1).Child("name")
	assert.Contains(t, second.Errors(), "type")
	_, ok = second.ErrorFor("minLength")
	assert.False(t, ok)
}

func TestErrorTree_Missing(t *testing.T) {
	t.Parallel()

	tree := NewErrorTree()
	assert.Zero(t, tree.TotalErrors())

	child := tree.Child("nope").Child(3)
	require.NotNil(t, child)
	assert.Zero(t, child.Len())
	assert.Empty(t, child.Errors())
}

func TestErrorTree_LaterErrorWins(t *testing.T) {
	t.Parallel()

	a := &ValidationError{Keyword: "type", Message: "first", Path: Path{"x"}}
	b := &ValidationError{Keyword: "type", Message: "second", Path: Path{"x"}}

	got, ok := NewErrorTree(a, b).Child("x").ErrorFor("type")
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestErrorTree_ErrorsIsACopy(t *testing.T) {
	t.Parallel()

	tree := NewErrorTree(&ValidationError{Keyword: "type"})
	errs := tree.Errors()
	delete(errs, "type")

	_, ok := tree.ErrorFor("type")
	assert.True(t, ok)
}
