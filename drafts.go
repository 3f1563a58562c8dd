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

package jsonschema

import (
	"maps"

	"rivaas.dev/jsonschema/metaschema"
)

// The predefined dialects. They are registered under the ids of their
// meta-schemas, so [DialectFor] finds them from a schema's $schema keyword.
var (
	// Draft3 validates draft-03 schemas.
	Draft3 = NewDialect("draft3", metaschema.Draft3(), draft3Keywords(), Draft3TypeChecker,
		WithIDFunc(idOf("id")),
		WithDefaultFormatChecker(Draft3FormatChecker),
	)

	// Draft4 validates draft-04 schemas.
	Draft4 = NewDialect("draft4", metaschema.Draft4(), draft4Keywords(), Draft4TypeChecker,
		WithIDFunc(idOf("id")),
		WithDefaultFormatChecker(Draft4FormatChecker),
	)

	// Draft6 validates draft-06 schemas.
	Draft6 = NewDialect("draft6", metaschema.Draft6(), draft6Keywords(), Draft6TypeChecker,
		WithDefaultFormatChecker(Draft6FormatChecker),
	)

	// Draft7 validates draft-07 schemas. It is the default dialect.
	Draft7 = NewDialect("draft7", metaschema.Draft7(), draft7Keywords(), Draft7TypeChecker,
		WithDefaultFormatChecker(Draft7FormatChecker),
	)
)

func init() {
	for _, d := range []*Dialect{Draft3, Draft4, Draft6, Draft7} {
		RegisterDialect(d)
	}
}

// commonKeywords are shared by every draft.
func commonKeywords() map[string]Keyword {
	return map[string]Keyword{
		"$ref":                 ref,
		"additionalItems":      additionalItems,
		"additionalProperties": additionalProperties,
		"enum":                 enum,
		"format":               format,
		"maxItems":             maxItems,
		"maxLength":            maxLength,
		"minItems":             minItems,
		"minLength":            minLength,
		"pattern":              pattern,
		"patternProperties":    patternProperties,
		"uniqueItems":          uniqueItems,
	}
}

func draft3Keywords() map[string]Keyword {
	k := commonKeywords()
	maps.Copy(k, map[string]Keyword{
		"dependencies": dependenciesDraft3,
		"disallow":     disallow,
		"divisibleBy":  multipleOf,
		"extends":      extends,
		"items":        itemsDraft3Draft4,
		"maximum":      maximumDraft3Draft4,
		"minimum":      minimumDraft3Draft4,
		"multipleOf":   multipleOf,
		"properties":   propertiesDraft3,
		"type":         typeDraft3,
	})

	return k
}

func draft4Keywords() map[string]Keyword {
	k := commonKeywords()
	maps.Copy(k, map[string]Keyword{
		"allOf":         allOf,
		"anyOf":         anyOf,
		"dependencies":  dependencies,
		"items":         itemsDraft3Draft4,
		"maxProperties": maxProperties,
		"maximum":       maximumDraft3Draft4,
		"minProperties": minProperties,
		"minimum":       minimumDraft3Draft4,
		"multipleOf":    multipleOf,
		"not":           not,
		"oneOf":         oneOf,
		"properties":    properties,
		"required":      required,
		"type":          typeKeyword,
	})

	return k
}

func draft6Keywords() map[string]Keyword {
	k := draft4Keywords()
	maps.Copy(k, map[string]Keyword{
		"const":            constKeyword,
		"contains":         contains,
		"exclusiveMaximum": exclusiveMaximum,
		"exclusiveMinimum": exclusiveMinimum,
		"items":            items,
		"maximum":          maximum,
		"minimum":          minimum,
		"propertyNames":    propertyNames,
	})

	return k
}

func draft7Keywords() map[string]Keyword {
	k := draft6Keywords()
	k["if"] = ifThenElse

	return k
}
