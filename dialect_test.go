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
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/jsonschema/jsonvalue"
)

func TestDialect_MetaSchemasAreValid(t *testing.T) {
	t.Parallel()

	for _, d := range []*Dialect{Draft3, Draft4, Draft6, Draft7} {
		t.Run(d.Name(), func(t *testing.T) {
			t.Parallel()

			require.NoError(t, d.CheckSchema(d.MetaSchema()))
		})
	}
}

func TestDialect_CheckSchema(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dialect *Dialect
		schema  string
		wantErr bool
	}{
		{name: "draft7 boolean schema", dialect: Draft7, schema: `true`},
		{name: "draft7 nested boolean schema", dialect: Draft7, schema: `{"properties": {"a": false}}`},
		{name: "draft4 rejects boolean subschema", dialect: Draft4, schema: `{"properties": {"a": false}}`, wantErr: true},
		{name: "draft4 boolean exclusiveMinimum", dialect: Draft4, schema: `{"minimum": 1, "exclusiveMinimum": true}`},
		{name: "draft4 exclusiveMinimum needs minimum", dialect: Draft4, schema: `{"exclusiveMinimum": true}`, wantErr: true},
		{name: "draft6 numeric exclusiveMinimum", dialect: Draft6, schema: `{"exclusiveMinimum": 1}`},
		{name: "draft3 required flag", dialect: Draft3, schema: `{"properties": {"a": {"required": true}}}`},
		{name: "draft3 type any", dialect: Draft3, schema: `{"type": "any"}`},
		{name: "draft7 unknown type", dialect: Draft7, schema: `{"type": "any"}`, wantErr: true},
		{name: "draft7 negative minLength", dialect: Draft7, schema: `{"minLength": -1}`, wantErr: true},
		{name: "draft7 required must be unique", dialect: Draft7, schema: `{"required": ["a", "a"]}`, wantErr: true},
		{name: "draft4 allOf", dialect: Draft4, schema: `{"allOf": [{"type": "string"}]}`},
		{name: "draft4 anyOf", dialect: Draft4, schema: `{"anyOf": [{"type": "string"}, {"minimum": 1}]}`},
		{name: "draft6 oneOf", dialect: Draft6, schema: `{"oneOf": [{"type": "string"}, {"type": "null"}]}`},
		{name: "draft7 allOf", dialect: Draft7, schema: `{"allOf": [{"type": "string"}]}`},
		{name: "draft7 anyOf", dialect: Draft7, schema: `{"anyOf": [{"type": "string"}, true]}`},
		{name: "draft7 oneOf", dialect: Draft7, schema: `{"oneOf": [{"type": "string"}, {"type": "null"}]}`},
		{name: "draft7 tuple items", dialect: Draft7, schema: `{"items": [{"type": "string"}, {"items": {"type": "integer"}}]}`},
		{name: "draft7 invalid allOf member", dialect: Draft7, schema: `{"allOf": [{"type": 12}]}`, wantErr: true},
		{name: "draft7 empty allOf", dialect: Draft7, schema: `{"allOf": []}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.dialect.CheckSchema(decode(t, tt.schema))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSchema)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDialect_Keywords(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Draft3.Keywords(), "extends")
	assert.Contains(t, Draft3.Keywords(), "divisibleBy")
	assert.NotContains(t, Draft3.Keywords(), "required")
	assert.Contains(t, Draft4.Keywords(), "required")
	assert.NotContains(t, Draft4.Keywords(), "const")
	assert.Contains(t, Draft6.Keywords(), "const")
	assert.NotContains(t, Draft6.Keywords(), "if")
	assert.Contains(t, Draft7.Keywords(), "if")
	assert.NotContains(t, Draft7.Keywords(), "then")

	assert.Nil(t, Draft7.KeywordFunc("disallow"))
	assert.NotNil(t, Draft7.KeywordFunc("$ref"))
	assert.IsIncreasing(t, Draft7.Keywords())
}

func TestDialect_Accessors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "draft4", Draft4.Name())
	assert.Same(t, Draft4TypeChecker, Draft4.TypeChecker())
	assert.Equal(t, Draft4FormatChecker, Draft4.FormatChecker())
	assert.Equal(t, "http://example.com/a", Draft4.IDOf(map[string]any{"id": "http://example.com/a"}))
	assert.Empty(t, Draft4.IDOf(map[string]any{"$id": "http://example.com/a"}))
	assert.Equal(t, "http://example.com/a", Draft7.IDOf(map[string]any{"$id": "http://example.com/a"}))
	assert.Empty(t, Draft7.IDOf(true))
}

func TestDialectFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		schema   any
		fallback *Dialect
		want     *Dialect
	}{
		{name: "draft3", schema: map[string]any{"$schema": "http://json-schema.org/draft-03/schema#"}, want: Draft3},
		{name: "draft4 without fragment", schema: map[string]any{"$schema": "http://json-schema.org/draft-04/schema"}, want: Draft4},
		{name: "draft6", schema: map[string]any{"$schema": "http://json-schema.org/draft-06/schema#"}, want: Draft6},
		{name: "draft7", schema: map[string]any{"$schema": "http://json-schema.org/draft-07/schema#"}, want: Draft7},
		{name: "unknown uses fallback", schema: map[string]any{"$schema": "http://example.com/nope"}, fallback: Draft4, want: Draft4},
		{name: "absent uses draft7", schema: map[string]any{}, want: Draft7},
		{name: "boolean schema", schema: true, fallback: Draft6, want: Draft6},
		{name: "non-string $schema", schema: map[string]any{"$schema": 4}, want: Draft7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Same(t, tt.want, DialectFor(tt.schema, tt.fallback))
		})
	}
}

func TestDialectByName(t *testing.T) {
	t.Parallel()

	d, ok := DialectByName("draft6")
	require.True(t, ok)
	assert.Same(t, Draft6, d)

	_, ok = DialectByName("draft2020-12")
	assert.False(t, ok)

	assert.GreaterOrEqual(t, len(Dialects()), 4)
}

// even is a custom keyword accepting only even integers when its value is true.
func even(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		if want, _ := value.(bool); !want || !v.IsType(instance, "integer") {
			return
		}
		if n, ok := jsonvalue.Int(instance); ok && n%2 != 0 {
			yield(NewValidationError("%s is not even", jsonvalue.Repr(instance)))
		}
	}
}

func TestExtend(t *testing.T) {
	t.Parallel()

	d := Extend(Draft7, map[string]Keyword{"even": even, "format": nil}, WithName("draft7-even"))
	assert.Equal(t, "draft7-even", d.Name())
	assert.Contains(t, d.Keywords(), "even")
	assert.NotContains(t, d.Keywords(), "format")
	assert.NotContains(t, Draft7.Keywords(), "even", "base is not modified")

	v, err := d.New(decode(t, `{"items": {"even": true, "minimum": 0}}`))
	require.NoError(t, err)

	errs, err := v.Errors(decode(t, `[2, 3, -4]`))
	require.NoError(t, err)
	require.Len(t, errs, 2)

	assert.Equal(t, "3 is not even", errs[0].Message)
	assert.Equal(t, "even", errs[0].Keyword)
	assert.Equal(t, Path{1}, errs[0].Path)
	assert.Equal(t, Path{"items", "even"}, errs[0].SchemaPath)
	assert.Equal(t, "-4 is less than the minimum of 0", errs[1].Message)
}

func TestNewDialect(t *testing.T) {
	t.Parallel()

	meta := decode(t, `{"$id": "http://example.com/strict-meta#", "type": "object", "required": ["type"]}`)
	strict := NewDialect("strict", meta, map[string]Keyword{
		"type":     Draft7.KeywordFunc("type"),
		"required": Draft7.KeywordFunc("required"),
	}, nil)

	assert.Same(t, Draft7TypeChecker, strict.TypeChecker())
	assert.Equal(t, []string{"required", "type"}, strict.Keywords())

	err := strict.CheckSchema(map[string]any{"minimum": 3})
	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "'type' is a required property", serr.Message)

	v, err := strict.New(decode(t, `{"type": "integer", "minimum": 3}`))
	require.NoError(t, err)
	assert.NoError(t, v.Validate(decode(t, `1`)), "minimum is not a keyword of this dialect")
	assert.Error(t, v.Validate(decode(t, `"x"`)))
}

func TestRegisterDialect(t *testing.T) {
	t.Parallel()

	meta := decode(t, `{"$id": "http://example.com/registered-meta#"}`)
	d := Extend(Draft7, nil, WithName("registered"))
	d.metaSchema = meta
	RegisterDialect(d)

	assert.Same(t, d, DialectFor(map[string]any{"$schema": "http://example.com/registered-meta"}, nil))
	got, ok := DialectByName("registered")
	require.True(t, ok)
	assert.Same(t, d, got)
}
