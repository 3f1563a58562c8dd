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

// Package jsonvalue models decoded JSON documents as a closed set of Go values.
//
// A JSON value is one of:
//
//   - nil (null)
//   - bool
//   - a number: [encoding/json.Number] or any Go integer or float type
//   - string
//   - []any
//   - map[string]any
//
// [KindOf] is the single place that inspects Go dynamic types. Everything else in
// the module switches on [Kind], which keeps booleans and numbers strictly apart.
//
// Numbers are compared exactly using [math/big.Rat], so 1, 1.0 and json.Number("1e0")
// are all equal, while true and 1 never are.
//
// Documents decoded by YAML, TOML or MessagePack libraries carry extra Go types
// (map[string]interface{} with int64 values, time.Time, []byte, ...). Use [Normalize]
// to bring them into the closed set before validation.
package jsonvalue
