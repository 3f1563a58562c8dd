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

	"rivaas.dev/jsonschema/jsonvalue"
)

// NullableKeywords returns keyword overrides for base under which null is an
// acceptable value almost everywhere:
//
//   - type and enum accept null
//   - properties skips properties that are missing or null
//   - additionalProperties accepts a null instance, and when it is false
//     reports each property not listed in properties separately
//
// Pass the result to [Extend], or use [Nullable].
func NullableKeywords(base *Dialect) map[string]Keyword {
	baseType := base.KeywordFunc("type")
	baseEnum := base.KeywordFunc("enum")
	baseProperties := base.KeywordFunc("properties")
	baseAdditional := base.KeywordFunc("additionalProperties")

	return map[string]Keyword{
		"type":                 skipNull(baseType),
		"enum":                 skipNull(baseEnum),
		"properties":           presentProperties(baseProperties),
		"additionalProperties": closedProperties(baseAdditional),
	}
}

// Nullable returns base extended with [NullableKeywords].
//
// Example:
//
//	v, err := jsonschema.New(schema, jsonschema.WithDialect(jsonschema.Nullable(jsonschema.Draft7)))
func Nullable(base *Dialect) *Dialect {
	return Extend(base, NullableKeywords(base), WithName(base.Name()+"-nullable"))
}

func skipNull(fn Keyword) Keyword {
	if fn == nil {
		return nil
	}

	return func(v *Validator, value, instance any, schema map[string]any) iter.Seq[*ValidationError] {
		if instance == nil {
			return none
		}

		return fn(v, value, instance, schema)
	}
}

func presentProperties(fn Keyword) Keyword {
	if fn == nil {
		return nil
	}

	return func(v *Validator, value, instance any, schema map[string]any) iter.Seq[*ValidationError] {
		obj, ok := instance.(map[string]any)
		if !ok {
			return none
		}
		props, _ := value.(map[string]any)

		present := make(map[string]any, len(props))
		for name, sub := range props {
			if obj[name] != nil {
				present[name] = sub
			}
		}

		return fn(v, present, instance, schema)
	}
}

func closedProperties(fn Keyword) Keyword {
	if fn == nil {
		return nil
	}

	return func(v *Validator, value, instance any, schema map[string]any) iter.Seq[*ValidationError] {
		obj, ok := instance.(map[string]any)
		if !ok {
			return none
		}
		if allowed, isBool := value.(bool); !isBool || allowed {
			return fn(v, value, instance, schema)
		}

		props, _ := schema["properties"].(map[string]any)

		return func(yield func(*ValidationError) bool) {
			for _, name := range jsonvalue.SortedKeys(obj) {
				if _, ok := props[name]; ok {
					continue
				}
				if !yield(NewValidationError("Additional property %s is not allowed.", jsonvalue.QuoteString(name))) {
					return
				}
			}
		}
	}
}
