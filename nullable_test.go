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

func TestNullable(t *testing.T) {
	t.Parallel()

	dialect := Nullable(Draft7)
	assert.Equal(t, "draft7-nullable", dialect.Name())

	tests := []struct {
		name     string
		schema   string
		instance string
		want     []string
	}{
		{name: "null satisfies type", schema: `{"type": "string"}`, instance: `null`},
		{name: "type still checked", schema: `{"type": "string"}`, instance: `1`, want: []string{"1 is not of type 'string'"}},
		{name: "null satisfies enum", schema: `{"enum": ["a"]}`, instance: `null`},
		{name: "enum still checked", schema: `{"enum": ["a"]}`, instance: `"b"`, want: []string{"'b' is not one of ['a']"}},
		{
			name:     "null property skipped",
			schema:   `{"properties": {"a": {"type": "integer", "minimum": 3}}}`,
			instance: `{"a": null}`,
		},
		{
			name:     "present property checked",
			schema:   `{"properties": {"a": {"minimum": 3}}}`,
			instance: `{"a": 1}`,
			want:     []string{"1 is less than the minimum of 3"},
		},
		{
			name:     "each additional property reported",
			schema:   `{"properties": {"a": {}}, "additionalProperties": false}`,
			instance: `{"a": 1, "c": 3, "b": 2}`,
			want: []string{
				"Additional property 'b' is not allowed.",
				"Additional property 'c' is not allowed.",
			},
		},
		{
			name:     "null satisfies closed object",
			schema:   `{"properties": {"a": {}}, "additionalProperties": false}`,
			instance: `null`,
		},
		{
			name:     "additionalProperties schema delegates",
			schema:   `{"properties": {"a": {}}, "additionalProperties": {"type": "integer"}}`,
			instance: `{"a": "x", "b": "y"}`,
			want:     []string{"'y' is not of type 'integer'"},
		},
		{
			name:     "nested null",
			schema:   `{"items": {"type": "object", "properties": {"n": {"type": "number"}}}}`,
			instance: `[null, {"n": null}, {"n": "x"}]`,
			want:     []string{"'x' is not of type 'number'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := New(decode(t, tt.schema), WithDialect(dialect))
			require.NoError(t, err)
			assert.Equal(t, tt.want, messages(t, v, decode(t, tt.instance)))
		})
	}
}

func TestNullable_BaseUnchanged(t *testing.T) {
	t.Parallel()

	_ = Nullable(Draft7)

	v, err := New(map[string]any{"type": "string"}, WithDialect(Draft7))
	require.NoError(t, err)
	assert.Equal(t, []string{"None is not of type 'string'"}, messages(t, v, nil))
}

func TestNullableKeywords_MissingBase(t *testing.T) {
	t.Parallel()

	base := NewDialect("bare", map[string]any{}, map[string]Keyword{"type": Draft7.KeywordFunc("type")}, nil)
	overrides := NullableKeywords(base)

	assert.NotNil(t, overrides["type"])
	assert.Nil(t, overrides["enum"])

	d := Extend(base, overrides)
	assert.Equal(t, []string{"type"}, d.Keywords())
}
