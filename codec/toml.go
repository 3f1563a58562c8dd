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

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// TypeTOML is a constant representing the "toml" encoding type.
const TypeTOML Type = "toml"

func init() {
	Register(TypeTOML, TOMLCodec{}, "toml", "application/toml")
}

// TOMLCodec implements the Codec interface for TOML encoding and decoding.
// A TOML document is always a table, so decoded documents are objects.
type TOMLCodec struct{}

// Encode encodes the given value 'v' to a TOML-encoded byte slice.
func (TOMLCodec) Encode(v any) ([]byte, error) {
	return toml.Marshal(v)
}

// Decode decodes the TOML-encoded data into the value pointed to by v.
// A *any target receives a map[string]any.
func (TOMLCodec) Decode(data []byte, v any) error {
	target, ok := v.(*any)
	if !ok {
		return toml.Unmarshal(data, v)
	}

	table := make(map[string]any)
	if err := toml.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("toml: %w", err)
	}
	*target = table

	return nil
}
