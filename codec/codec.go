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

package codec

// Type names a document encoding, e.g. [TypeJSON]. Types are matched to file
// extensions and media types with [RegisterExtension].
type Type string

// Encoder writes a value in one encoding. Implementations must be safe for
// concurrent use.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder reads a single document. The codecs in this package decode into *any
// and leave normalization to [DecodeDocument]. Implementations must be safe for
// concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

// Codec both encodes and decodes. Every built-in codec implements it.
type Codec interface {
	Encoder
	Decoder
}

// Register makes c the encoder and decoder for name and maps the given file
// extensions and media types to it.
func Register(name Type, c Codec, extensionsOrMediaTypes ...string) {
	RegisterEncoder(name, c)
	RegisterDecoder(name, c)
	RegisterExtension(name, extensionsOrMediaTypes...)
}
