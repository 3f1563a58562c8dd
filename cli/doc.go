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

// Package cli implements the jsonschema command.
//
// The command validates instance documents against a schema file:
//
//	jsonschema -i person.yaml -i other.json schema.json
//	cat person.json | jsonschema -o pretty schema.json
//
// Settings are layered, lowest precedence first: built-in defaults, a
// .jsonschema.{yaml,yml,toml,json} file in the working directory (or the file
// named by --config), JSONSCHEMA_* environment variables and finally flags.
//
// Output formats:
//   - plain: one line per error on stderr, formatted by the --error-format
//     Go template with the fields File, Instance, Message, Path, SchemaPath,
//     Keyword and Error
//   - pretty: a box per error on stderr and a SUCCESS banner on stdout
//   - json: one object per instance on stdout
//
// The exit code is 0 when every instance is valid, 1 when the schema or an
// instance is invalid or cannot be loaded, and 2 for usage errors.
package cli
