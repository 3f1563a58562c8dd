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

// Package loader fetches and decodes JSON Schema documents.
//
// A [Func] retrieves the document behind a URI. The resolver in
// [rivaas.dev/jsonschema] calls one for every $ref that points outside the
// documents it already knows, choosing the function by URI scheme:
//
//   - http, https: [HTTP] issues a GET and decodes the body by Content-Type
//   - file: [File] reads from the local file system
//   - consul: [Consul] reads a key from Consul's key-value store
//
// Documents may be JSON, YAML, TOML or MessagePack. [LoadFile] and [LoadReader]
// decode local documents the same way and are used by the command line tool.
package loader
