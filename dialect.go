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
	"iter"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Keyword evaluates one schema keyword against an instance.
//
// value is the keyword's value in schema. The function yields one error per
// violation and nothing when the instance conforms or the keyword does not
// apply to the instance's kind. Errors only need a message; the engine records
// the keyword, instance, schema and paths.
//
// Keywords recurse through [Validator.Descend] and may call the other
// [Validator] helpers. They must not retain v beyond the call.
type Keyword func(v *Validator, value, instance any, schema map[string]any) iter.Seq[*ValidationError]

// IDFunc returns the id a schema declares, or "" if it declares none.
type IDFunc func(schema any) string

// Dialect is an immutable validator configuration: a meta-schema, a keyword
// table, a type checker and the rule for reading schema ids.
//
// Dialects are composed, never subclassed. Use [NewDialect] to build one from
// parts and [Extend] to layer keyword overrides on an existing one.
type Dialect struct {
	name          string
	metaSchema    any
	keywords      map[string]Keyword
	typeChecker   *TypeChecker
	idOf          IDFunc
	formatChecker FormatChecker
}

// DialectOption configures a [Dialect] built by [NewDialect] or [Extend].
type DialectOption func(*Dialect)

// WithIDFunc sets how schema ids are read. The default reads "$id".
func WithIDFunc(fn IDFunc) DialectOption {
	return func(d *Dialect) {
		d.idOf = fn
	}
}

// WithTypeChecker replaces the dialect's type checker.
func WithTypeChecker(tc *TypeChecker) DialectOption {
	return func(d *Dialect) {
		d.typeChecker = tc
	}
}

// WithDefaultFormatChecker sets the format checker returned by
// [Dialect.FormatChecker], used when format checking is requested without a
// specific checker.
func WithDefaultFormatChecker(fc FormatChecker) DialectOption {
	return func(d *Dialect) {
		d.formatChecker = fc
	}
}

// WithName renames the dialect.
func WithName(name string) DialectOption {
	return func(d *Dialect) {
		d.name = name
	}
}

// NewDialect builds a dialect. The keyword table is copied.
//
// Example:
//
//	strict := jsonschema.NewDialect("strict", metaSchema, map[string]jsonschema.Keyword{
//	    "type":     jsonschema.Draft7.KeywordFunc("type"),
//	    "required": jsonschema.Draft7.KeywordFunc("required"),
//	}, jsonschema.Draft7TypeChecker)
func NewDialect(name string, metaSchema any, keywords map[string]Keyword, typeChecker *TypeChecker, opts ...DialectOption) *Dialect {
	d := &Dialect{
		name:          name,
		metaSchema:    metaSchema,
		keywords:      maps.Clone(keywords),
		typeChecker:   typeChecker,
		idOf:          idOf("$id"),
		formatChecker: NewFormatChecker(),
	}
	if d.keywords == nil {
		d.keywords = make(map[string]Keyword)
	}
	if d.typeChecker == nil {
		d.typeChecker = Draft7TypeChecker
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Extend returns a new dialect with base's keyword table overlaid by
// overrides. A nil override removes the keyword. base is not modified.
//
// Example:
//
//	lenient := jsonschema.Extend(jsonschema.Draft7, map[string]jsonschema.Keyword{
//	    "format": nil,
//	}, jsonschema.WithName("lenient"))
func Extend(base *Dialect, overrides map[string]Keyword, opts ...DialectOption) *Dialect {
	keywords := maps.Clone(base.keywords)
	for name, fn := range overrides {
		if fn == nil {
			delete(keywords, name)
			continue
		}
		keywords[name] = fn
	}

	d := &Dialect{
		name:          base.name,
		metaSchema:    base.metaSchema,
		keywords:      keywords,
		typeChecker:   base.typeChecker,
		idOf:          base.idOf,
		formatChecker: base.formatChecker,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Name returns the dialect name, e.g. "draft7".
func (d *Dialect) Name() string { return d.name }

// MetaSchema returns the schema that schemas of this dialect must satisfy.
func (d *Dialect) MetaSchema() any { return d.metaSchema }

// TypeChecker returns the dialect's type checker.
func (d *Dialect) TypeChecker() *TypeChecker { return d.typeChecker }

// FormatChecker returns the dialect's default format checker.
func (d *Dialect) FormatChecker() FormatChecker { return d.formatChecker }

// IDOf returns the id declared by schema.
func (d *Dialect) IDOf(schema any) string { return d.idOf(schema) }

// KeywordFunc returns the evaluator registered for name, or nil.
func (d *Dialect) KeywordFunc(name string) Keyword { return d.keywords[name] }

// Keywords returns the names of all registered keywords in lexical order.
func (d *Dialect) Keywords() []string {
	return slices.Sorted(maps.Keys(d.keywords))
}

// New creates a validator for schema using this dialect.
func (d *Dialect) New(schema any, opts ...Option) (*Validator, error) {
	return New(schema, append(opts, WithDialect(d))...)
}

// CheckSchema validates schema against the dialect's meta-schema.
//
// Errors:
//   - [*SchemaError] for the first meta-schema violation
//   - [*RefResolutionError] if the meta-schema cannot be evaluated
func (d *Dialect) CheckSchema(schema any) error {
	v, err := New(d.metaSchema, WithDialect(d))
	if err != nil {
		return err
	}

	for verr, err := range v.IterErrors(schema) {
		if err != nil {
			return err
		}

		return newSchemaError(verr)
	}

	return nil
}

// idOf returns an IDFunc reading the given keyword.
func idOf(keyword string) IDFunc {
	return func(schema any) string {
		m, ok := schema.(map[string]any)
		if !ok {
			return ""
		}
		id, _ := m[keyword].(string)

		return id
	}
}

var dialectRegistry = struct {
	mu   sync.RWMutex
	byID map[string]*Dialect
}{byID: make(map[string]*Dialect)}

// RegisterDialect makes d discoverable by [DialectFor] under the id of its
// meta-schema, and adds its meta-schema to the store of new resolvers.
func RegisterDialect(d *Dialect) {
	dialectRegistry.mu.Lock()
	defer dialectRegistry.mu.Unlock()
	dialectRegistry.byID[dialectKey(d.IDOf(d.metaSchema))] = d
}

// Dialects returns the registered dialects ordered by name.
func Dialects() []*Dialect {
	dialectRegistry.mu.RLock()
	defer dialectRegistry.mu.RUnlock()

	out := slices.Collect(maps.Values(dialectRegistry.byID))
	slices.SortFunc(out, func(a, b *Dialect) int { return strings.Compare(a.name, b.name) })

	return out
}

// DialectFor returns the registered dialect named by schema's $schema keyword.
// It returns fallback when $schema is absent or unknown, and [Draft7] when
// fallback is nil.
func DialectFor(schema any, fallback *Dialect) *Dialect {
	if fallback == nil {
		fallback = Draft7
	}

	m, ok := schema.(map[string]any)
	if !ok {
		return fallback
	}
	uri, ok := m["$schema"].(string)
	if !ok {
		return fallback
	}

	dialectRegistry.mu.RLock()
	defer dialectRegistry.mu.RUnlock()
	if d, ok := dialectRegistry.byID[dialectKey(uri)]; ok {
		return d
	}

	return fallback
}

// DialectByName returns the registered dialect with the given name.
func DialectByName(name string) (*Dialect, bool) {
	for _, d := range Dialects() {
		if d.name == name {
			return d, true
		}
	}

	return nil, false
}

// dialectKey normalizes a meta-schema URI so that a trailing empty fragment
// does not matter.
func dialectKey(uri string) string {
	return normalizeURI(strings.TrimSuffix(uri, "#"))
}
