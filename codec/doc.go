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

// Package codec decodes schema and instance documents from JSON, YAML, TOML and
// MessagePack into the value model of [rivaas.dev/jsonschema/jsonvalue].
//
// Each format registers an [Encoder] and a [Decoder] under a [Type] at init time.
// [DecodeDocument] decodes bytes with the codec of the given type and normalizes
// the result, so a YAML integer and a JSON integer both arrive as json.Number.
//
//	doc, err := codec.DecodeDocument(codec.TypeYAML, data)
//
// The codec for a file is picked by extension with [TypeForPath], and for an HTTP
// response by media type with [TypeForMediaType].
//
// Custom formats are added with [Register], or piecewise with [RegisterEncoder],
// [RegisterDecoder] and [RegisterExtension].
package codec
