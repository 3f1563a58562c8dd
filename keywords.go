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
	"errors"
	"fmt"
	"iter"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"rivaas.dev/jsonschema/jsonvalue"
)

// Keyword evaluators shared by every dialect from draft 4 on. The draft-3 and
// draft-4 variants live in keywords_legacy.go.

// regexCache holds compiled patterns keyed by source.
var regexCache sync.Map

// compile returns the compiled form of pattern. An invalid pattern aborts
// evaluation with an error wrapping [ErrSchema].
func (v *Validator) compile(pattern string) *regexp.Regexp {
	if re, ok := regexCache.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		v.fatal(fmt.Errorf("%w: invalid pattern %s: %w", ErrSchema, jsonvalue.QuoteString(pattern), err))
	}
	actual, _ := regexCache.LoadOrStore(pattern, re)

	return actual.(*regexp.Regexp)
}

func (v *Validator) object(instance any) (map[string]any, bool) {
	if !v.IsType(instance, "object") {
		return nil, false
	}
	m, ok := instance.(map[string]any)

	return m, ok
}

func (v *Validator) array(instance any) ([]any, bool) {
	if !v.IsType(instance, "array") {
		return nil, false
	}
	a, ok := instance.([]any)

	return a, ok
}

func (v *Validator) str(instance any) (string, bool) {
	if !v.IsType(instance, "string") {
		return "", false
	}
	s, ok := instance.(string)

	return s, ok
}

// schemaInt reads a non-negative integer keyword value.
func (v *Validator) schemaInt(keyword string, value any) int {
	n, ok := jsonvalue.Int(value)
	if !ok || n < 0 {
		v.fatal(fmt.Errorf("%w: %s must be a non-negative integer, got %s", ErrSchema, keyword, jsonvalue.Repr(value)))
	}

	return n
}

// compare compares a numeric instance with a keyword's limit.
func (v *Validator) compare(keyword string, instance, limit any) int {
	c, ok := jsonvalue.Compare(instance, limit)
	if !ok {
		v.fatal(fmt.Errorf("%w: %s must be a number, got %s", ErrSchema, keyword, jsonvalue.Repr(limit)))
	}

	return c
}

// conformsNested is [Validator.Conforms] for a value derived from the current
// instance, such as an array element.
func (v *Validator) conformsNested(instance, schema any) bool {
	for range v.descend(instance, schema, nil, nil, true) {
		return false
	}

	return true
}

// one yields a single error.
func one(verr *ValidationError) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		yield(verr)
	}
}

func none(func(*ValidationError) bool) {}

// forward passes every error of seq to yield and reports whether the consumer
// wants more.
func forward(seq iter.Seq[*ValidationError], yield func(*ValidationError) bool) bool {
	for verr := range seq {
		if !yield(verr) {
			return false
		}
	}

	return true
}

func ref(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		s, ok := value.(string)
		if !ok {
			v.fatal(fmt.Errorf("%w: $ref must be a string, got %s", ErrSchema, jsonvalue.Repr(value)))
		}

		uri, resolved, err := v.resolver.Resolve(s)
		if err != nil {
			v.fatal(err)
		}
		leave := v.enterRef(uri)
		defer leave()

		v.resolver.PushScope(uri)
		defer v.resolver.popScope()

		forward(v.descend(instance, resolved, nil, nil, false), yield)
	}
}

func typeKeyword(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	types := ensureList(value)
	for _, t := range types {
		name, ok := t.(string)
		if !ok {
			v.fatal(fmt.Errorf("%w: type entries must be strings, got %s", ErrSchema, jsonvalue.Repr(t)))
		}
		if v.IsType(instance, name) {
			return none
		}
	}

	return one(NewValidationError("%s", typesMessage(instance, types)))
}

func ensureList(value any) []any {
	if list, ok := value.([]any); ok {
		return list
	}

	return []any{value}
}

// typesMessage names the expected types. Schema entries are named by their
// "name" property when they have one.
func typesMessage(instance any, types []any) string {
	reprs := make([]string, len(types))
	for i, t := range types {
		if m, ok := t.(map[string]any); ok {
			if name, ok := m["name"]; ok {
				reprs[i] = jsonvalue.Repr(name)
				continue
			}
		}
		reprs[i] = jsonvalue.Repr(t)
	}

	return fmt.Sprintf("%s is not of type %s", jsonvalue.Repr(instance), strings.Join(reprs, ", "))
}

func properties(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		obj, ok := v.object(instance)
		if !ok {
			return
		}
		props, _ := value.(map[string]any)
		for _, name := range jsonvalue.SortedKeys(props) {
			child, ok := obj[name]
			if !ok {
				continue
			}
			if !forward(v.Descend(child, props[name], name, name), yield) {
				return
			}
		}
	}
}

func patternProperties(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		obj, ok := v.object(instance)
		if !ok {
			return
		}
		patterns, _ := value.(map[string]any)
		keys := jsonvalue.SortedKeys(obj)
		for _, pattern := range jsonvalue.SortedKeys(patterns) {
			re := v.compile(pattern)
			for _, k := range keys {
				if !re.MatchString(k) {
					continue
				}
				if !forward(v.Descend(obj[k], patterns[pattern], k, pattern), yield) {
					return
				}
			}
		}
	}
}

func propertyNames(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		obj, ok := v.object(instance)
		if !ok {
			return
		}
		for _, name := range jsonvalue.SortedKeys(obj) {
			if !forward(v.descend(name, value, nil, nil, true), yield) {
				return
			}
		}
	}
}

// additionalKeys returns the keys of obj matched neither by the schema's
// properties nor by its patternProperties, in lexical order.
func (v *Validator) additionalKeys(obj, schema map[string]any) []string {
	props, _ := schema["properties"].(map[string]any)
	patterns, _ := schema["patternProperties"].(map[string]any)

	var extras []string
	for _, k := range jsonvalue.SortedKeys(obj) {
		if _, ok := props[k]; ok {
			continue
		}
		matched := false
		for pattern := range patterns {
			if v.compile(pattern).MatchString(k) {
				matched = true
				break
			}
		}
		if !matched {
			extras = append(extras, k)
		}
	}

	return extras
}

func additionalProperties(v *Validator, value, instance any, schema map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		obj, ok := v.object(instance)
		if !ok {
			return
		}
		extras := v.additionalKeys(obj, schema)

		switch ap := value.(type) {
		case map[string]any:
			for _, extra := range extras {
				if !forward(v.Descend(obj[extra], ap, extra, nil), yield) {
					return
				}
			}
		case bool:
			if ap || len(extras) == 0 {
				return
			}
			yield(NewValidationError("%s", additionalPropertiesMessage(extras, schema)))
		}
	}
}

func additionalPropertiesMessage(extras []string, schema map[string]any) string {
	reprs := make([]string, len(extras))
	for i, e := range extras {
		reprs[i] = jsonvalue.QuoteString(e)
	}

	if patterns, ok := schema["patternProperties"].(map[string]any); ok {
		verb := "do"
		if len(extras) == 1 {
			verb = "does"
		}
		names := jsonvalue.SortedKeys(patterns)
		for i, p := range names {
			names[i] = jsonvalue.QuoteString(p)
		}

		return fmt.Sprintf("%s %s not match any of the regexes: %s", strings.Join(reprs, ", "), verb, strings.Join(names, ", "))
	}

	return fmt.Sprintf("Additional properties are not allowed (%s %s unexpected)", strings.Join(reprs, ", "), extrasVerb(len(extras)))
}

func extrasVerb(n int) string {
	if n == 1 {
		return "was"
	}

	return "were"
}

func items(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		arr, ok := v.array(instance)
		if !ok {
			return
		}

		if tuple, ok := value.([]any); ok {
			for i := 0; i < len(arr) && i < len(tuple); i++ {
				if !forward(v.Descend(arr[i], tuple[i], i, i), yield) {
					return
				}
			}
			return
		}

		for i, item := range arr {
			if !forward(v.Descend(item, value, i, nil), yield) {
				return
			}
		}
	}
}

func additionalItems(v *Validator, value, instance any, schema map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		arr, ok := v.array(instance)
		if !ok {
			return
		}
		tuple, ok := schema["items"].([]any)
		if !ok || len(arr) <= len(tuple) {
			return
		}

		switch ai := value.(type) {
		case map[string]any:
			for i := len(tuple); i < len(arr); i++ {
				if !forward(v.Descend(arr[i], ai, i, nil), yield) {
					return
				}
			}
		case bool:
			if ai {
				return
			}
			rest := arr[len(tuple):]
			yield(NewValidationError("Additional items are not allowed (%s %s unexpected)",
				jsonvalue.ReprList(rest), extrasVerb(len(rest))))
		}
	}
}

func constKeyword(_ *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if jsonvalue.Equal(instance, value) {
		return none
	}

	return one(NewValidationError("%s was expected", jsonvalue.Repr(value)))
}

func contains(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		arr, ok := v.array(instance)
		if !ok {
			return
		}
		for _, item := range arr {
			if v.conformsNested(item, value) {
				return
			}
		}
		yield(NewValidationError("None of %s are valid under the given schema", jsonvalue.Repr(instance)))
	}
}

func exclusiveMinimum(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if !v.IsType(instance, "number") || v.compare("exclusiveMinimum", instance, value) > 0 {
		return none
	}

	return one(NewValidationError("%s is less than or equal to the minimum of %s", jsonvalue.Repr(instance), jsonvalue.Repr(value)))
}

func exclusiveMaximum(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if !v.IsType(instance, "number") || v.compare("exclusiveMaximum", instance, value) < 0 {
		return none
	}

	return one(NewValidationError("%s is greater than or equal to the maximum of %s", jsonvalue.Repr(instance), jsonvalue.Repr(value)))
}

func minimum(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if !v.IsType(instance, "number") || v.compare("minimum", instance, value) >= 0 {
		return none
	}

	return one(NewValidationError("%s is less than the minimum of %s", jsonvalue.Repr(instance), jsonvalue.Repr(value)))
}

func maximum(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if !v.IsType(instance, "number") || v.compare("maximum", instance, value) <= 0 {
		return none
	}

	return one(NewValidationError("%s is greater than the maximum of %s", jsonvalue.Repr(instance), jsonvalue.Repr(value)))
}

func multipleOf(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if !v.IsType(instance, "number") {
		return none
	}
	if !jsonvalue.IsNumber(value) {
		v.fatal(fmt.Errorf("%w: multipleOf must be a number, got %s", ErrSchema, jsonvalue.Repr(value)))
	}
	if jsonvalue.MultipleOf(instance, value) {
		return none
	}

	return one(NewValidationError("%s is not a multiple of %s", jsonvalue.Repr(instance), jsonvalue.Repr(value)))
}

func minItems(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if arr, ok := v.array(instance); ok && len(arr) < v.schemaInt("minItems", value) {
		return one(NewValidationError("%s is too short", jsonvalue.Repr(instance)))
	}

	return none
}

func maxItems(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if arr, ok := v.array(instance); ok && len(arr) > v.schemaInt("maxItems", value) {
		return one(NewValidationError("%s is too long", jsonvalue.Repr(instance)))
	}

	return none
}

func uniqueItems(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if unique, _ := value.(bool); !unique {
		return none
	}
	if arr, ok := v.array(instance); ok && !jsonvalue.Unique(arr) {
		return one(NewValidationError("%s has non-unique elements", jsonvalue.Repr(instance)))
	}

	return none
}

func pattern(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	s, ok := v.str(instance)
	if !ok {
		return none
	}
	p, ok := value.(string)
	if !ok {
		v.fatal(fmt.Errorf("%w: pattern must be a string, got %s", ErrSchema, jsonvalue.Repr(value)))
	}
	if v.compile(p).MatchString(s) {
		return none
	}

	return one(NewValidationError("%s does not match %s", jsonvalue.Repr(instance), jsonvalue.QuoteString(p)))
}

func format(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if v.formatChecker == nil {
		return none
	}
	name, ok := value.(string)
	if !ok {
		return none
	}

	err := v.formatChecker.Check(instance, name)
	if err == nil {
		return none
	}

	verr := &ValidationError{Message: err.Error(), Cause: err}
	var ferr *FormatError
	if errors.As(err, &ferr) {
		verr.Message = ferr.Message
	}

	return one(verr)
}

func minLength(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if s, ok := v.str(instance); ok && utf8.RuneCountInString(s) < v.schemaInt("minLength", value) {
		return one(NewValidationError("%s is too short", jsonvalue.Repr(instance)))
	}

	return none
}

func maxLength(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if s, ok := v.str(instance); ok && utf8.RuneCountInString(s) > v.schemaInt("maxLength", value) {
		return one(NewValidationError("%s is too long", jsonvalue.Repr(instance)))
	}

	return none
}

func dependencies(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		obj, ok := v.object(instance)
		if !ok {
			return
		}
		deps, _ := value.(map[string]any)
		for _, property := range jsonvalue.SortedKeys(deps) {
			if _, ok := obj[property]; !ok {
				continue
			}
			if !forward(dependency(v, obj, property, deps[property]), yield) {
				return
			}
		}
	}
}

// dependency checks one entry of dependencies: an array lists properties that
// must also be present, anything else is a schema the object must satisfy.
func dependency(v *Validator, obj map[string]any, property string, dep any) iter.Seq[*ValidationError] {
	list, ok := dep.([]any)
	if !ok {
		return v.Descend(obj, dep, nil, property)
	}

	return func(yield func(*ValidationError) bool) {
		for _, each := range list {
			name, _ := each.(string)
			if _, ok := obj[name]; ok {
				continue
			}
			if !yield(NewValidationError("%s is a dependency of %s", jsonvalue.Repr(each), jsonvalue.QuoteString(property))) {
				return
			}
		}
	}
}

func enum(_ *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if jsonvalue.Contains(ensureList(value), instance) {
		return none
	}

	return one(NewValidationError("%s is not one of %s", jsonvalue.Repr(instance), jsonvalue.Repr(value)))
}

func required(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		obj, ok := v.object(instance)
		if !ok {
			return
		}
		names, _ := value.([]any)
		for _, each := range names {
			name, _ := each.(string)
			if _, ok := obj[name]; ok {
				continue
			}
			if !yield(NewValidationError("%s is a required property", jsonvalue.Repr(each))) {
				return
			}
		}
	}
}

func minProperties(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if obj, ok := v.object(instance); ok && len(obj) < v.schemaInt("minProperties", value) {
		return one(NewValidationError("%s does not have enough properties", jsonvalue.Repr(instance)))
	}

	return none
}

func maxProperties(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if obj, ok := v.object(instance); ok && len(obj) > v.schemaInt("maxProperties", value) {
		return one(NewValidationError("%s has too many properties", jsonvalue.Repr(instance)))
	}

	return none
}

func allOf(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		subschemas, _ := value.([]any)
		for i, sub := range subschemas {
			if !forward(v.Descend(instance, sub, nil, i), yield) {
				return
			}
		}
	}
}

func anyOf(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	subschemas, _ := value.([]any)

	var all []*ValidationError
	for i, sub := range subschemas {
		errs := slices.Collect(v.Descend(instance, sub, nil, i))
		if len(errs) == 0 {
			return none
		}
		all = append(all, errs...)
	}

	verr := NewValidationError("%s is not valid under any of the given schemas", jsonvalue.Repr(instance))
	verr.Context = all

	return one(verr)
}

// oneOf reports no valid subschema, or more than one. Once a valid subschema
// is found only the subschemas after it are checked for further matches.
func oneOf(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	subschemas, _ := value.([]any)

	var all []*ValidationError
	first := -1
	for i, sub := range subschemas {
		errs := slices.Collect(v.Descend(instance, sub, nil, i))
		if len(errs) == 0 {
			first = i
			break
		}
		all = append(all, errs...)
	}

	if first < 0 {
		verr := NewValidationError("%s is not valid under any of the given schemas", jsonvalue.Repr(instance))
		verr.Context = all

		return one(verr)
	}

	var more []any
	for _, sub := range subschemas[first+1:] {
		if v.Conforms(instance, sub) {
			more = append(more, sub)
		}
	}
	if len(more) == 0 {
		return none
	}
	more = append(more, subschemas[first])

	return one(NewValidationError("%s is valid under each of %s", jsonvalue.Repr(instance), jsonvalue.ReprList(more)))
}

func not(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if !v.Conforms(instance, value) {
		return none
	}

	return one(NewValidationError("%s is not allowed for %s", jsonvalue.Repr(value), jsonvalue.Repr(instance)))
}

func ifThenElse(v *Validator, value, instance any, schema map[string]any) iter.Seq[*ValidationError] {
	if v.Conforms(instance, value) {
		if then, ok := schema["then"]; ok {
			return v.Descend(instance, then, nil, "then")
		}

		return none
	}

	if els, ok := schema["else"]; ok {
		return v.Descend(instance, els, nil, "else")
	}

	return none
}
