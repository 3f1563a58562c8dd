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

// Package metaschema embeds the JSON Schema meta-schemas for drafts 3, 4, 6
// and 7.
//
// The raw documents are exported as byte slices. The accessor functions decode
// a fresh copy on every call, with numbers kept as json.Number, so callers may
// modify the result.
package metaschema

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"

	"rivaas.dev/jsonschema/jsonvalue"
)

// Draft3JSON contains the draft-03 meta-schema,
// identified as http://json-schema.org/draft-03/schema#.
//
//go:embed draft3.json
var Draft3JSON []byte

// Draft4JSON contains the draft-04 meta-schema,
// identified as http://json-schema.org/draft-04/schema#.
//
//go:embed draft4.json
var Draft4JSON []byte

// Draft6JSON contains the draft-06 meta-schema,
// identified as http://json-schema.org/draft-06/schema#.
//
//go:embed draft6.json
var Draft6JSON []byte

// Draft7JSON contains the draft-07 meta-schema,
// identified as http://json-schema.org/draft-07/schema#.
//
//go:embed draft7.json
var Draft7JSON []byte

var documents = map[string][]byte{
	"draft3": Draft3JSON,
	"draft4": Draft4JSON,
	"draft6": Draft6JSON,
	"draft7": Draft7JSON,
}

// Draft3 returns the decoded draft-03 meta-schema.
func Draft3() any { return mustDecode("draft3") }

// Draft4 returns the decoded draft-04 meta-schema.
func Draft4() any { return mustDecode("draft4") }

// Draft6 returns the decoded draft-06 meta-schema.
func Draft6() any { return mustDecode("draft6") }

// Draft7 returns the decoded draft-07 meta-schema.
func Draft7() any { return mustDecode("draft7") }

// Names returns the names accepted by [Load] in lexical order.
func Names() []string {
	return slices.Sorted(maps.Keys(documents))
}

// Load returns the decoded meta-schema with the given name, e.g. "draft4".
func Load(name string) (any, error) {
	data, ok := documents[name]
	if !ok {
		return nil, fmt.Errorf("unknown meta-schema %q", name)
	}

	doc, err := jsonvalue.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode meta-schema %q: %w", name, err)
	}

	return doc, nil
}

func mustDecode(name string) any {
	doc, err := Load(name)
	if err != nil {
		panic(err)
	}

	return doc
}
