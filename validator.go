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
	"context"
	"fmt"
	"iter"
	"log/slog"

	"rivaas.dev/jsonschema/jsonvalue"
)

// Validator validates instances against one schema.
//
// A Validator is created once per schema and reused for many instances. It is
// not safe for concurrent use: evaluation mutates the resolver's scope stack
// and the reference guard. Use [Validator.Clone] to get an independent copy
// that shares the resolver's document store.
//
// Example:
//
//	v, err := jsonschema.New(schema)
//	if err != nil {
//	    return err
//	}
//	if err := v.Validate(instance); err != nil {
//	    var verr *jsonschema.ValidationError
//	    if errors.As(err, &verr) {
//	        log.Printf("invalid at %s: %s", verr.Path.Pointer(), verr.Message)
//	    }
//	}
type Validator struct {
	schema        any
	dialect       *Dialect
	resolver      *Resolver
	formatChecker FormatChecker
	logger        *slog.Logger
	telemetry     *telemetry
	ctx           context.Context //nolint:containedctx // forwarded to telemetry
	maxRefDepth   int

	refs  []refFrame
	depth int
}

// refFrame records a $ref being evaluated and how deep into the instance the
// evaluation was when it was entered.
type refFrame struct {
	uri   string
	depth int
}

// New creates a validator for schema.
//
// The dialect is taken from [WithDialect] or else chosen from the schema's
// $schema keyword by [DialectFor]. New does not check the schema against the
// meta-schema; call [Dialect.CheckSchema] or use the package-level [Validate]
// for that. Format checking is off unless [WithFormatChecker] is given.
//
// Schemas and instances should be decoded with [jsonvalue.Decode] (or a
// json.Decoder with UseNumber). Drafts 3 and 4 tell integers from other numbers
// by their literal, so a float64 such as 3 from plain json.Unmarshal is not an
// "integer" there; drafts 6 and 7 accept it.
//
// Errors:
//   - [ErrSchema] if schema is neither an object nor a boolean
//   - an error describing an invalid option
func New(schema any, opts ...Option) (*Validator, error) {
	cfg := applyOptions(opts...)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid validator configuration: %w", err)
	}

	switch jsonvalue.KindOf(schema) {
	case jsonvalue.Object, jsonvalue.Boolean:
	default:
		return nil, fmt.Errorf("%w: schema must be an object or a boolean, got %s", ErrSchema, jsonvalue.KindOf(schema))
	}

	dialect := cfg.dialect
	if dialect == nil {
		dialect = DialectFor(schema, nil)
	}

	tel, err := newTelemetry(cfg.meterProvider, cfg.tracerProvider)
	if err != nil {
		return nil, err
	}

	resolver := cfg.resolver
	if resolver == nil {
		resolver = newResolver(dialect.IDOf(schema), schema, cfg, tel)
	}

	return &Validator{
		schema:        schema,
		dialect:       dialect,
		resolver:      resolver,
		formatChecker: cfg.formatChecker,
		logger:        cfg.logger,
		telemetry:     tel,
		ctx:           cfg.ctx,
		maxRefDepth:   cfg.maxRefDepth,
	}, nil
}

// MustNew is like [New] but panics on error. It is intended for schemas that
// are part of the program.
func MustNew(schema any, opts ...Option) *Validator {
	v, err := New(schema, opts...)
	if err != nil {
		panic(fmt.Sprintf("jsonschema.MustNew: %v", err))
	}

	return v
}

// Validate checks instance against schema in one call: the dialect is picked
// with [DialectFor] (or [WithDialect]), the schema is checked against the
// dialect's meta-schema, and the first validation error is returned. Decode
// instance as described for [New].
//
// Errors:
//   - [*SchemaError] if the schema itself is invalid
//   - [*ValidationError] for the first way the instance fails the schema
//   - [*RefResolutionError] or [*UnknownTypeError] if evaluation cannot proceed
func Validate(instance, schema any, opts ...Option) error {
	cfg := applyOptions(opts...)
	dialect := cfg.dialect
	if dialect == nil {
		dialect = DialectFor(schema, nil)
	}

	if err := dialect.CheckSchema(schema); err != nil {
		return err
	}

	v, err := New(schema, append(opts, WithDialect(dialect))...)
	if err != nil {
		return err
	}

	return v.Validate(instance)
}

// IterErrors returns every error instance has under the schema, computed lazily.
//
// Each step yields either a validation error with a nil error, or a nil
// validation error with the fatal error that stopped evaluation; a fatal error
// always ends the sequence. Stopping early skips the remaining work. The
// sequence may be ranged over more than once.
func (v *Validator) IterErrors(instance any) iter.Seq2[*ValidationError, error] {
	return func(yield func(*ValidationError, error) bool) {
		v.reset()

		count := 0
		err := catch(func() {
			for verr := range v.Evaluate(instance, v.schema) {
				count++
				if !yield(verr, nil) {
					return
				}
			}
		})
		v.reset()
		v.telemetry.recordValidation(v.ctx, v.dialect.name, count)

		if err != nil {
			v.logger.Debug("validation aborted", "dialect", v.dialect.name, "error", err)
			yield(nil, err)
		}
	}
}

// Errors collects every validation error. The list is nil when the instance is
// valid.
func (v *Validator) Errors(instance any) (ErrorList, error) {
	var list ErrorList
	for verr, err := range v.IterErrors(instance) {
		if err != nil {
			return list, err
		}
		list = append(list, verr)
	}

	return list, nil
}

// Validate returns the first validation error, or nil if instance is valid.
//
// Errors:
//   - [*ValidationError] for the first way the instance fails the schema
//   - [*RefResolutionError] or [*UnknownTypeError] if evaluation cannot proceed
func (v *Validator) Validate(instance any) error {
	for verr, err := range v.IterErrors(instance) {
		if err != nil {
			return err
		}

		return verr
	}

	return nil
}

// IsValid reports whether instance is valid under the schema. It stops at the
// first error.
func (v *Validator) IsValid(instance any) (bool, error) {
	for _, err := range v.IterErrors(instance) {
		if err != nil {
			return false, err
		}

		return false, nil
	}

	return true, nil
}

// Evaluate yields the errors instance has under schema, which may be any
// schema reachable from the root. It is part of the API for keyword authors;
// fatal errors unwind to the enclosing [Validator.IterErrors].
//
// When schema contains $ref, every other keyword beside it is ignored.
// Otherwise the keywords known to the dialect run in lexical order.
func (v *Validator) Evaluate(instance, schema any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		switch s := schema.(type) {
		case bool:
			if !s {
				verr := NewValidationError("False schema does not allow %s", jsonvalue.Repr(instance))
				verr.locate("", nil, instance, schema)
				yield(verr)
			}
		case map[string]any:
			v.evaluateObject(instance, s, yield)
		default:
			v.fatal(fmt.Errorf("%w: schema must be an object or a boolean, got %s", ErrSchema, jsonvalue.Repr(schema)))
		}
	}
}

func (v *Validator) evaluateObject(instance any, schema map[string]any, yield func(*ValidationError) bool) {
	if id := v.dialect.IDOf(schema); id != "" {
		v.resolver.PushScope(id)
		defer v.resolver.popScope()
	}

	if ref, ok := schema["$ref"]; ok {
		if fn := v.dialect.keywords["$ref"]; fn != nil {
			v.apply("$ref", fn, ref, instance, schema, yield)
			return
		}
	}

	for _, keyword := range jsonvalue.SortedKeys(schema) {
		fn := v.dialect.keywords[keyword]
		if fn == nil {
			continue
		}
		if !v.apply(keyword, fn, schema[keyword], instance, schema, yield) {
			return
		}
	}
}

// apply runs one keyword and stamps its errors. It returns false once the
// consumer has stopped.
func (v *Validator) apply(keyword string, fn Keyword, value, instance any, schema map[string]any, yield func(*ValidationError) bool) bool {
	for verr := range fn(v, value, instance, schema) {
		verr.locate(keyword, value, instance, schema)
		if keyword != "$ref" {
			verr.SchemaPath = verr.SchemaPath.prepend(keyword)
		}
		if !yield(verr) {
			return false
		}
	}

	return true
}

// Descend evaluates instance, a part of the current instance found at path,
// against schema, found at schemaPath within the current schema. Either
// segment may be nil. The returned errors have both segments prepended.
func (v *Validator) Descend(instance, schema any, path, schemaPath any) iter.Seq[*ValidationError] {
	return v.descend(instance, schema, path, schemaPath, path != nil)
}

// descend is [Validator.Descend] with explicit control over whether the
// evaluation counts as consuming the instance. Keywords that evaluate a
// derived value, such as property names, count as nesting without a path.
func (v *Validator) descend(instance, schema any, path, schemaPath any, nested bool) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		if nested {
			v.depth++
			defer func() { v.depth-- }()
		}

		for verr := range v.Evaluate(instance, schema) {
			if path != nil {
				verr.Path = verr.Path.prepend(path)
			}
			if schemaPath != nil {
				verr.SchemaPath = verr.SchemaPath.prepend(schemaPath)
			}
			if !yield(verr) {
				return
			}
		}
	}
}

// Conforms reports whether instance has no errors under schema. It stops at
// the first error.
func (v *Validator) Conforms(instance, schema any) bool {
	for range v.Evaluate(instance, schema) {
		return false
	}

	return true
}

// IsType reports whether instance is of the named type under the dialect's
// type checker. An unknown type name aborts evaluation with an
// [*UnknownTypeError].
func (v *Validator) IsType(instance any, name string) bool {
	ok, err := v.dialect.typeChecker.IsType(instance, name)
	if err != nil {
		v.fatal(&UnknownTypeError{Type: name, Instance: instance, Schema: v.schema})
	}

	return ok
}

// Schema returns the root schema.
func (v *Validator) Schema() any { return v.schema }

// Dialect returns the dialect the validator evaluates with.
func (v *Validator) Dialect() *Dialect { return v.dialect }

// Resolver returns the validator's reference resolver.
func (v *Validator) Resolver() *Resolver { return v.resolver }

// FormatChecker returns the format checker, or nil when format checking is off.
func (v *Validator) FormatChecker() FormatChecker { return v.formatChecker }

// Clone returns a validator for the same schema with its own scope stack. The
// clone shares the document store and may be used from another goroutine.
func (v *Validator) Clone() *Validator {
	c := *v
	c.resolver = v.resolver.Clone()
	c.refs = nil
	c.depth = 0

	return &c
}

// fatal aborts evaluation with err. It is recovered by [Validator.IterErrors].
func (v *Validator) fatal(err error) {
	panic(fatalError{err: err})
}

// enterRef records that the reference uri is being evaluated and returns the
// function that leaves it. Re-entering uri before any of the instance has been
// consumed, or nesting more references than allowed, is fatal.
func (v *Validator) enterRef(uri string) func() {
	uri = normalizeURI(uri)
	if len(v.refs) >= v.maxRefDepth {
		v.fatal(&RefResolutionError{
			Ref:     uri,
			Message: fmt.Sprintf("more than %d nested references while resolving %s", v.maxRefDepth, jsonvalue.QuoteString(uri)),
			Err:     ErrMaxRefDepth,
		})
	}

	for i := len(v.refs) - 1; i >= 0 && v.refs[i].depth == v.depth; i-- {
		if v.refs[i].uri == uri {
			v.fatal(&RefResolutionError{
				Ref:     uri,
				Message: fmt.Sprintf("reference %s refers to itself without consuming the instance", jsonvalue.QuoteString(uri)),
				Err:     ErrRecursiveRef,
			})
		}
	}

	v.refs = append(v.refs, refFrame{uri: uri, depth: v.depth})

	return func() {
		v.refs = v.refs[:len(v.refs)-1]
	}
}

// reset clears per-evaluation state.
func (v *Validator) reset() {
	v.refs = v.refs[:0]
	v.depth = 0
	v.resolver.resetScopes()
}
