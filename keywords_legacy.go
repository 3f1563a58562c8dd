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
	"fmt"
	"iter"
	"slices"

	"rivaas.dev/jsonschema/jsonvalue"
)

// Keyword evaluators whose meaning changed after draft 3 or draft 4.

// typeDraft3 accepts type names and schemas. The instance matches a schema
// entry when it is valid under it; the errors of every failed schema entry
// become the context of the reported error.
func typeDraft3(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	types := ensureList(value)

	var all []*ValidationError
	for i, t := range types {
		switch entry := t.(type) {
		case map[string]any:
			errs := slices.Collect(v.Descend(instance, entry, nil, i))
			if len(errs) == 0 {
				return none
			}
			all = append(all, errs...)
		case string:
			if entry == "any" || v.IsType(instance, entry) {
				return none
			}
		default:
			v.fatal(fmt.Errorf("%w: type entries must be strings or schemas, got %s", ErrSchema, jsonvalue.Repr(t)))
		}
	}

	verr := NewValidationError("%s", typesMessage(instance, types))
	verr.Context = all

	return one(verr)
}

// disallow rejects instances that match any of the listed types.
func disallow(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		for _, d := range ensureList(value) {
			if !v.Conforms(instance, map[string]any{"type": []any{d}}) {
				continue
			}
			if !yield(NewValidationError("%s is disallowed for %s", jsonvalue.Repr(d), jsonvalue.Repr(instance))) {
				return
			}
		}
	}
}

func extends(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
	if list, ok := value.([]any); ok {
		return func(yield func(*ValidationError) bool) {
			for i, sub := range list {
				if !forward(v.Descend(instance, sub, nil, i), yield) {
					return
				}
			}
		}
	}

	return v.Descend(instance, value, nil, nil)
}

// propertiesDraft3 also reports missing properties whose schema sets
// "required": true. Such errors point at the missing property and are
// attributed to the required flag inside its schema.
func propertiesDraft3(v *Validator, value, instance any, schema map[string]any) iter.Seq[*ValidationError] {
	return func(yield func(*ValidationError) bool) {
		obj, ok := v.object(instance)
		if !ok {
			return
		}
		props, _ := value.(map[string]any)
		for _, name := range jsonvalue.SortedKeys(props) {
			sub := props[name]
			if child, ok := obj[name]; ok {
				if !forward(v.Descend(child, sub, name, name), yield) {
					return
				}
				continue
			}

			subschema, _ := sub.(map[string]any)
			flag, ok := subschema["required"]
			if isRequired, _ := flag.(bool); !ok || !isRequired {
				continue
			}

			verr := NewValidationError("%s is a required property", jsonvalue.QuoteString(name))
			verr.locate("required", flag, instance, schema)
			verr.Path = Path{name}
			verr.SchemaPath = Path{name, "required"}
			if !yield(verr) {
				return
			}
		}
	}
}

// dependenciesDraft3 also accepts a single property name as a dependency.
func dependenciesDraft3(v *Validator, value, instance any, _ map[string]any) iter.Seq[*ValidationError] {
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

			dep := deps[property]
			if name, ok := dep.(string); ok {
				if _, present := obj[name]; present {
					continue
				}
				if !yield(NewValidationError("%s is a dependency of %s", jsonvalue.QuoteString(name), jsonvalue.QuoteString(property))) {
					return
				}
				continue
			}
			if !forward(dependency(v, obj, property, dep), yield) {
				return
			}
		}
	}
}

// itemsDraft3Draft4 applies an object to every element and an array
// positionally.
func itemsDraft3Draft4(v *Validator, value, instance any, schema map[string]any) iter.Seq[*ValidationError] {
	if _, ok := value.(map[string]any); !ok {
		if _, ok := value.([]any); !ok {
			v.fatal(fmt.Errorf("%w: items must be an object or an array, got %s", ErrSchema, jsonvalue.Repr(value)))
		}
	}

	return items(v, value, instance, schema)
}

// minimumDraft3Draft4 honours the boolean exclusiveMinimum beside it.
func minimumDraft3Draft4(v *Validator, value, instance any, schema map[string]any) iter.Seq[*ValidationError] {
	if !v.IsType(instance, "number") {
		return none
	}

	c := v.compare("minimum", instance, value)
	failed, cmp := c < 0, "less than"
	if exclusive, _ := schema["exclusiveMinimum"].(bool); exclusive {
		failed, cmp = c <= 0, "less than or equal to"
	}
	if !failed {
		return none
	}

	return one(NewValidationError("%s is %s the minimum of %s", jsonvalue.Repr(instance), cmp, jsonvalue.Repr(value)))
}

// maximumDraft3Draft4 honours the boolean exclusiveMaximum beside it.
func maximumDraft3Draft4(v *Validator, value, instance any, schema map[string]any) iter.Seq[*ValidationError] {
	if !v.IsType(instance, "number") {
		return none
	}

	c := v.compare("maximum", instance, value)
	failed, cmp := c > 0, "greater than"
	if exclusive, _ := schema["exclusiveMaximum"].(bool); exclusive {
		failed, cmp = c >= 0, "greater than or equal to"
	}
	if !failed {
		return none
	}

	return one(NewValidationError("%s is %s the maximum of %s", jsonvalue.Repr(instance), cmp, jsonvalue.Repr(value)))
}
