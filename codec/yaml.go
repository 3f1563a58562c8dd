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
	"errors"
	"io"

	"github.com/goccy/go-yaml"
)

// TypeYAML identifies YAML documents.
const TypeYAML Type = "yaml"

func init() {
	Register(TypeYAML, YAMLCodec{}, "yaml", "yml", "application/yaml", "application/x-yaml", "text/yaml")
}

// YAMLCodec encodes and decodes YAML. A stream holding more than one document
// is rejected, since a schema or instance is a single value.
type YAMLCodec struct{}

// Encode writes v as block-style YAML indented by two spaces.
func (YAMLCodec) Encode(v any) ([]byte, error) {
	return yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.UseLiteralStyleIfMultiline(true))
}

// Decode parses the only document in data into v.
func (YAMLCodec) Decode(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}
		return err
	}

	var next any
	if err := dec.Decode(&next); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after the first document")
	}

	return nil
}
