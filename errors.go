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
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"rivaas.dev/jsonschema/jsonvalue"
)

// ErrValidation is a sentinel error for instances that do not conform to a schema.
// Use errors.Is(err, ErrValidation) to check if an error is a validation error.
var ErrValidation = errors.New("validation")

// Predefined errors.
var (
	// ErrSchema is returned when a schema is not valid under its meta-schema or
	// cannot be interpreted at all.
	ErrSchema = errors.New("invalid schema")

	// ErrRefResolution is returned when a $ref cannot be resolved.
	ErrRefResolution = errors.New("unresolvable reference")

	// ErrUnknownType is returned when a schema names a type the type checker does not know.
	ErrUnknownType = errors.New("unknown type")

	// ErrFormat is returned by format checkers for non-conforming values.
	ErrFormat = errors.New("format")

	// ErrRecursiveRef is returned when a $ref re-enters itself without consuming any instance.
	ErrRecursiveRef = errors.New("recursive reference")

	// ErrMaxRefDepth is returned when $ref nesting exceeds the configured limit.
	ErrMaxRefDepth = errors.New("maximum reference depth exceeded")

	// ErrEmptyScopeStack is returned when popping more resolution scopes than were pushed.
	ErrEmptyScopeStack = errors.New("empty scope stack")
)

// ValidationError describes one way an instance failed a schema.
//
// Keyword evaluators create errors with only [ValidationError.Message] (and
// optionally Context or Cause) set. The engine fills in Keyword, KeywordValue,
// Instance and Schema right after the evaluator yields, and every enclosing
// call prepends one segment to Path and SchemaPath on the way out.
//
// Example:
//
//	for verr, err := range v.IterErrors(instance) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Printf("%s: %s\n", verr.Path.Pointer(), verr.Message)
//	}
type ValidationError struct {
	Message      string             `json:"message"`
	Path         Path               `json:"path"`
	SchemaPath   Path               `json:"schemaPath"`
	Keyword      string             `json:"keyword,omitempty"`
	KeywordValue any                `json:"-"`
	Instance     any                `json:"-"`
	Schema       any                `json:"-"`
	Context      []*ValidationError `json:"context,omitempty"`
	Cause        error              `json:"-"`

	located bool
}

// NewValidationError creates an error with a formatted message, for use by
// keyword evaluators.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// locate records where the error was raised unless that is already known.
func (e *ValidationError) locate(keyword string, value, instance, schema any) {
	if e.located {
		return
	}
	e.Keyword = keyword
	e.KeywordValue = value
	e.Instance = instance
	e.Schema = schema
	e.located = true
}

// Located reports whether the engine has recorded the keyword, instance and
// schema that produced the error.
func (e *ValidationError) Located() bool {
	return e.located
}

// Error renders the message followed by the failing keyword, the schema and the
// instance. Errors that were never located render as the bare message.
func (e *ValidationError) Error() string {
	return e.render("schema", "instance")
}

func (e *ValidationError) render(schemaWord, instanceWord string) string {
	if !e.located {
		return e.Message
	}

	var b strings.Builder
	b.WriteString(e.Message)
	keyword := "None"
	if e.Keyword != "" {
		keyword = jsonvalue.QuoteString(e.Keyword)
	}
	fmt.Fprintf(&b, "\n\nFailed validating %s in %s%s:\n", keyword, schemaWord, e.SchemaPath.parent().String())
	b.WriteString(indent(pretty(e.Schema)))
	fmt.Fprintf(&b, "\n\nOn %s%s:\n", instanceWord, e.Path.String())
	b.WriteString(indent(pretty(e.Instance)))

	return b.String()
}

// Unwrap returns [ErrValidation] and the format checker cause, if any.
func (e *ValidationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrValidation}
	}

	return []error{ErrValidation, e.Cause}
}

// SchemaError reports a schema that is invalid under its dialect's meta-schema.
// The embedded error's Instance is the offending part of the schema and its
// Schema is the part of the meta-schema that rejected it.
type SchemaError struct {
	ValidationError
}

func newSchemaError(e *ValidationError) *SchemaError {
	return &SchemaError{ValidationError: *e}
}

// Error renders the error like [ValidationError.Error], naming the meta-schema
// and the schema instead of the schema and the instance.
func (e *SchemaError) Error() string {
	return e.render("metaschema", "schema")
}

// Unwrap returns [ErrSchema] and the underlying validation error.
func (e *SchemaError) Unwrap() []error {
	return []error{ErrSchema, &e.ValidationError}
}

// RefResolutionError reports a $ref that could not be followed.
type RefResolutionError struct {
	Ref     string
	Message string
	Err     error
}

func newRefResolutionError(ref string, err error) *RefResolutionError {
	return &RefResolutionError{Ref: ref, Message: fmt.Sprintf("unresolvable reference %s", jsonvalue.QuoteString(ref)), Err: err}
}

// Error returns the message and the underlying cause.
func (e *RefResolutionError) Error() string {
	if e.Err == nil {
		return e.Message
	}

	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap returns [ErrRefResolution] and the underlying cause.
func (e *RefResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRefResolution}
	}

	return []error{ErrRefResolution, e.Err}
}

// UnknownTypeError reports a type name the active type checker does not know.
type UnknownTypeError struct {
	Type     string
	Instance any
	Schema   any
}

// Error renders the type together with the schema and instance being checked.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("Unknown type %s for validator with schema:\n%s\n\nWhile checking instance:\n%s",
		jsonvalue.QuoteString(e.Type), indent(pretty(e.Schema)), indent(pretty(e.Instance)))
}

// Unwrap returns [ErrUnknownType].
func (e *UnknownTypeError) Unwrap() error {
	return ErrUnknownType
}

// FormatError is returned by format checkers for values that do not conform.
type FormatError struct {
	Format  string
	Value   any
	Message string
	Cause   error
}

// Error returns the message.
func (e *FormatError) Error() string {
	return e.Message
}

// Unwrap returns [ErrFormat] and the checker's underlying error, if any.
func (e *FormatError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrFormat}
	}

	return []error{ErrFormat, e.Cause}
}

// ErrorList is a collection of validation errors. It implements error so that a
// whole validation result can be returned and inspected with errors.As.
//
// Example:
//
//	var list jsonschema.ErrorList
//	if errors.As(err, &list) && list.HasKeyword("required") {
//	    // handle missing properties
//	}
type ErrorList []*ValidationError

// Error joins the messages of all errors.
func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return l[0].Message
	}

	msgs := make([]string, len(l))
	for i, e := range l {
		if p := e.Path.Pointer(); p != "" {
			msgs[i] = p + ": " + e.Message
		} else {
			msgs[i] = e.Message
		}
	}

	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap returns the contained errors.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}

	return errs
}

// HasErrors returns true if there are any errors.
func (l ErrorList) HasErrors() bool {
	return len(l) > 0
}

// Has reports whether any error is located at the given JSON pointer.
func (l ErrorList) Has(pointer string) bool {
	return slices.ContainsFunc(l, func(e *ValidationError) bool { return e.Path.Pointer() == pointer })
}

// HasKeyword reports whether any error was raised by the given keyword.
func (l ErrorList) HasKeyword(keyword string) bool {
	return slices.ContainsFunc(l, func(e *ValidationError) bool { return e.Keyword == keyword })
}

// Sort orders errors by instance path, then schema path, then message.
func (l ErrorList) Sort() {
	slices.SortStableFunc(l, func(a, b *ValidationError) int {
		if c := strings.Compare(a.Path.Pointer(), b.Path.Pointer()); c != 0 {
			return c
		}
		if c := strings.Compare(a.SchemaPath.Pointer(), b.SchemaPath.Pointer()); c != 0 {
			return c
		}

		return strings.Compare(a.Message, b.Message)
	})
}

// fatalError carries an error that aborts evaluation. It travels as a panic from
// deep inside keyword evaluators and is recovered at the public API boundary.
type fatalError struct {
	err error
}

// catch runs fn and returns the error of any fatalError raised inside it. Other
// panics propagate unchanged.
func catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(fatalError)
			if !ok {
				panic(r)
			}
			err = f.err
		}
	}()
	fn()

	return nil
}

func pretty(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return jsonvalue.Repr(v)
	}

	return string(data)
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "    " + line
	}

	return strings.Join(lines, "\n")
}
