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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeChecker_IsType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		checker  *TypeChecker
		instance any
		typ      string
		want     bool
	}{
		{name: "draft3 any", checker: Draft3TypeChecker, instance: map[string]any{}, typ: "any", want: true},
		{name: "draft3 integer literal", checker: Draft3TypeChecker, instance: json.Number("3"), typ: "integer", want: true},
		{name: "draft3 integral float is not an integer", checker: Draft3TypeChecker, instance: json.Number("3.0"), typ: "integer", want: false},
		{name: "draft4 integral float is not an integer", checker: Draft4TypeChecker, instance: 3.0, typ: "integer", want: false},
		{name: "draft6 integral float is an integer", checker: Draft6TypeChecker, instance: json.Number("3.0"), typ: "integer", want: true},
		{name: "draft7 fraction is not an integer", checker: Draft7TypeChecker, instance: json.Number("3.5"), typ: "integer", want: false},
		{name: "go int is an integer", checker: Draft7TypeChecker, instance: 3, typ: "integer", want: true},
		{name: "integer is a number", checker: Draft7TypeChecker, instance: json.Number("3"), typ: "number", want: true},
		{name: "boolean is not a number", checker: Draft7TypeChecker, instance: true, typ: "number", want: false},
		{name: "boolean is not an integer", checker: Draft7TypeChecker, instance: false, typ: "integer", want: false},
		{name: "null", checker: Draft7TypeChecker, instance: nil, typ: "null", want: true},
		{name: "string", checker: Draft7TypeChecker, instance: "x", typ: "string", want: true},
		{name: "array", checker: Draft7TypeChecker, instance: []any{}, typ: "array", want: true},
		{name: "object is not an array", checker: Draft7TypeChecker, instance: map[string]any{}, typ: "array", want: false},
		{name: "object", checker: Draft7TypeChecker, instance: map[string]any{}, typ: "object", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.checker.IsType(tt.instance, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeChecker_UnknownType(t *testing.T) {
	t.Parallel()

	_, err := Draft4TypeChecker.IsType(1, "any")
	var uerr *UnknownTypeError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "any", uerr.Type)
	assert.Equal(t, 1, uerr.Instance)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestTypeChecker_Types(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"any", "array", "boolean", "integer", "null", "number", "object", "string"},
		Draft3TypeChecker.Types())
	assert.Equal(t,
		[]string{"array", "boolean", "integer", "null", "number", "object", "string"},
		Draft7TypeChecker.Types())
	assert.True(t, Draft3TypeChecker.Has("any"))
	assert.False(t, Draft4TypeChecker.Has("any"))
}

func TestTypeChecker_Redefine(t *testing.T) {
	t.Parallel()

	isPositive := func(instance any) bool {
		n, ok := instance.(int)
		return ok && n > 0
	}
	custom := Draft7TypeChecker.Redefine("positive", isPositive)

	ok, err := custom.IsType(3, "positive")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, Draft7TypeChecker.Has("positive"), "receiver is unchanged")

	many := Draft7TypeChecker.RedefineMany(map[string]TypeCheck{
		"positive": isPositive,
		"string":   func(any) bool { return false },
	})
	ok, err = many.IsType("x", "string")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Draft7TypeChecker.IsType("x", "string")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTypeChecker_Remove(t *testing.T) {
	t.Parallel()

	removed, err := Draft7TypeChecker.Remove("null", "array")
	require.NoError(t, err)
	assert.False(t, removed.Has("null"))
	assert.False(t, removed.Has("array"))
	assert.True(t, Draft7TypeChecker.Has("null"))

	same, err := Draft7TypeChecker.RemoveMany([]string{"string", "bogus"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Same(t, Draft7TypeChecker, same)
	assert.True(t, Draft7TypeChecker.Has("string"))
}

func TestValidator_CustomTypeChecker(t *testing.T) {
	t.Parallel()

	checker := Draft7TypeChecker.Redefine("array", func(instance any) bool {
		switch instance.(type) {
		case []any, []string:
			return true
		default:
			return false
		}
	})
	dialect := Extend(Draft7, nil, WithTypeChecker(checker), WithName("tuples"))

	v, err := New(map[string]any{"type": "array"}, WithDialect(dialect))
	require.NoError(t, err)
	assert.NoError(t, v.Validate([]string{"a"}))

	v, err = New(map[string]any{"type": "array"})
	require.NoError(t, err)
	assert.Error(t, v.Validate([]string{"a"}))
}
