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
	"maps"
	"slices"

	"rivaas.dev/jsonschema/jsonvalue"
)

// TypeCheck reports whether an instance belongs to a named JSON Schema type.
type TypeCheck func(instance any) bool

// TypeChecker maps JSON Schema type names to predicates.
//
// A TypeChecker is immutable: [TypeChecker.Redefine] and [TypeChecker.Remove]
// return new checkers and leave the receiver untouched, so checkers can be
// shared freely between dialects and goroutines.
type TypeChecker struct {
	checks map[string]TypeCheck
}

// NewTypeChecker creates a checker from a set of predicates.
func NewTypeChecker(checks map[string]TypeCheck) *TypeChecker {
	return &TypeChecker{checks: maps.Clone(checks)}
}

// IsType reports whether instance is of the named type.
//
// Errors:
//   - [*UnknownTypeError] if name is not registered
func (c *TypeChecker) IsType(instance any, name string) (bool, error) {
	fn, ok := c.checks[name]
	if !ok {
		return false, &UnknownTypeError{Type: name, Instance: instance}
	}

	return fn(instance), nil
}

// Has reports whether name is registered.
func (c *TypeChecker) Has(name string) bool {
	_, ok := c.checks[name]
	return ok
}

// Types returns the registered type names in lexical order.
func (c *TypeChecker) Types() []string {
	return slices.Sorted(maps.Keys(c.checks))
}

// Redefine returns a checker with name bound to fn.
func (c *TypeChecker) Redefine(name string, fn TypeCheck) *TypeChecker {
	return c.RedefineMany(map[string]TypeCheck{name: fn})
}

// RedefineMany returns a checker with every entry of checks bound.
func (c *TypeChecker) RedefineMany(checks map[string]TypeCheck) *TypeChecker {
	out := maps.Clone(c.checks)
	if out == nil {
		out = make(map[string]TypeCheck, len(checks))
	}
	maps.Copy(out, checks)

	return &TypeChecker{checks: out}
}

// Remove returns a checker without the named types.
//
// Errors:
//   - [*UnknownTypeError] for the first name that is not registered; the
//     receiver is returned unchanged in that case
func (c *TypeChecker) Remove(names ...string) (*TypeChecker, error) {
	return c.RemoveMany(names)
}

// RemoveMany is [TypeChecker.Remove] taking a slice.
func (c *TypeChecker) RemoveMany(names []string) (*TypeChecker, error) {
	out := maps.Clone(c.checks)
	for _, name := range names {
		if _, ok := out[name]; !ok {
			return c, &UnknownTypeError{Type: name}
		}
		delete(out, name)
	}

	return &TypeChecker{checks: out}, nil
}

func isArray(instance any) bool   { return jsonvalue.KindOf(instance) == jsonvalue.Array }
func isBoolean(instance any) bool { return jsonvalue.KindOf(instance) == jsonvalue.Boolean }
func isNull(instance any) bool    { return jsonvalue.KindOf(instance) == jsonvalue.Null }
func isNumber(instance any) bool  { return jsonvalue.KindOf(instance) == jsonvalue.Number }
func isObject(instance any) bool  { return jsonvalue.KindOf(instance) == jsonvalue.Object }
func isString(instance any) bool  { return jsonvalue.KindOf(instance) == jsonvalue.String }
func isAny(any) bool              { return true }

// isIntegerLiteral accepts numbers written without fraction or exponent.
func isIntegerLiteral(instance any) bool {
	return jsonvalue.IsIntegerLiteral(instance)
}

// isIntegral accepts any number with a zero fractional part, such as 1.0.
func isIntegral(instance any) bool {
	return jsonvalue.IsIntegral(instance)
}

var (
	// Draft3TypeChecker knows the draft-3 types, including "any".
	Draft3TypeChecker = NewTypeChecker(map[string]TypeCheck{
		"any":     isAny,
		"array":   isArray,
		"boolean": isBoolean,
		"integer": isIntegerLiteral,
		"object":  isObject,
		"null":    isNull,
		"number":  isNumber,
		"string":  isString,
	})

	// Draft4TypeChecker is the draft-3 checker without "any".
	Draft4TypeChecker = mustRemove(Draft3TypeChecker, "any")

	// Draft6TypeChecker treats every integral number as an integer.
	Draft6TypeChecker = Draft4TypeChecker.Redefine("integer", isIntegral)

	// Draft7TypeChecker is identical to [Draft6TypeChecker].
	Draft7TypeChecker = Draft6TypeChecker
)

func mustRemove(c *TypeChecker, names ...string) *TypeChecker {
	out, err := c.Remove(names...)
	if err != nil {
		panic(err)
	}

	return out
}
