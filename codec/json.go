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
	"bytes"
	"encoding/json"
	"errors"
)

// TypeJSON is a constant representing the "json" encoding type.
const TypeJSON Type = "json"

func init() {
	Register(TypeJSON, JSONCodec{}, "json", "application/json", "application/schema+json", "text/json")
}

// JSONCodec encodes and decodes JSON. Decoding keeps numbers as json.Number so
// that integer literals and large values survive unchanged.
type JSONCodec struct{}

// Encode converts v into JSON.
func (JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode parses data into v, rejecting trailing data after the first value.
func (JSONCodec) Decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after top-level value")
	}

	return nil
}
