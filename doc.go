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

// Package jsonschema validates JSON documents against JSON Schema drafts 3, 4,
// 6 and 7.
//
// # Getting Started
//
// Instances and schemas are plain decoded JSON: map[string]any, []any, string,
// bool, nil and numbers. Decode with json.Decoder.UseNumber (or
// [rivaas.dev/jsonschema/jsonvalue.Decode]) so that large integers and decimals
// keep their exact value.
//
//	schema, _ := jsonvalue.Decode([]byte(`{"type": "object", "required": ["name"]}`))
//	instance, _ := jsonvalue.Decode([]byte(`{"age": 3}`))
//
//	if err := jsonschema.Validate(instance, schema); err != nil {
//		fmt.Println(err) // 'name' is a required property ...
//	}
//
// [Validate] checks the schema against its meta-schema first. To validate many
// instances against one schema, create a [Validator] once:
//
//	v, err := jsonschema.New(schema)
//	if err != nil {
//		return err
//	}
//	for verr, err := range v.IterErrors(instance) {
//		if err != nil {
//			return err // unresolvable $ref, unknown type, ...
//		}
//		fmt.Printf("%s: %s\n", verr.Path.Pointer(), verr.Message)
//	}
//
// # Dialects
//
// A [Dialect] bundles a meta-schema, a keyword table and a [TypeChecker].
// [Draft3], [Draft4], [Draft6] and [Draft7] are predefined; [DialectFor] picks
// one from a schema's $schema keyword. New dialects are composed from existing
// ones with [Extend]:
//
//	even := func(v *jsonschema.Validator, value, instance any, _ map[string]any) iter.Seq[*jsonschema.ValidationError] {
//		return func(yield func(*jsonschema.ValidationError) bool) {
//			n, ok := jsonvalue.Int(instance)
//			if ok && n%2 != 0 {
//				yield(jsonschema.NewValidationError("%d is odd", n))
//			}
//		}
//	}
//	d := jsonschema.Extend(jsonschema.Draft7, map[string]jsonschema.Keyword{"even": even})
//
// # Errors
//
// Every [ValidationError] carries the instance path, the schema path and the
// keyword that failed. Errors raised under anyOf, oneOf and draft-3 type carry
// the errors of each alternative in Context. [BestMatch] picks the single most
// useful error and [NewErrorTree] indexes errors by instance path.
//
// Problems that make validation impossible, such as an unresolvable $ref, are
// returned as errors instead of validation errors: [*RefResolutionError],
// [*UnknownTypeError], and errors wrapping [ErrSchema].
//
// # References
//
// $ref values are resolved by a [Resolver] against the id of the enclosing
// schemas. Documents for http, https and file URIs are fetched on demand and
// cached; other schemes are served by handlers registered with [WithHandler],
// for instance [rivaas.dev/jsonschema/loader.Consul].
//
// # Observability
//
// Validators record OpenTelemetry metrics for validations and remote fetches,
// and spans for fetches, through the providers given with [WithMeterProvider]
// and [WithTracerProvider] or the global ones. Debug records go to the
// [log/slog] logger set with [WithLogger].
package jsonschema
