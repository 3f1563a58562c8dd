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
	"errors"
	"fmt"
	"maps"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"rivaas.dev/jsonschema/jsonpointer"
	"rivaas.dev/jsonschema/jsonvalue"
)

// FormatChecker checks values against the format keyword.
//
// Check returns nil when instance conforms to format or when the format is
// unknown, and a [*FormatError] otherwise. Implementations must be safe for
// concurrent use once configured.
type FormatChecker interface {
	Check(instance any, format string) error
}

// FormatFunc checks a single format. It returns nil for conforming values and
// for values of kinds the format does not apply to. A returned error becomes
// the [FormatError.Cause].
type FormatFunc func(instance any) error

// FormatRegistry is a [FormatChecker] backed by a table of [FormatFunc]s.
// Register all formats before sharing the registry between goroutines.
type FormatRegistry struct {
	checkers map[string]FormatFunc
}

// NewFormatChecker creates a registry with the named built-in formats, or with
// every built-in format when no names are given. Unknown names are ignored.
func NewFormatChecker(formats ...string) *FormatRegistry {
	all := allFormats()
	if len(formats) == 0 {
		return &FormatRegistry{checkers: all}
	}

	checkers := make(map[string]FormatFunc, len(formats))
	for _, name := range formats {
		if fn, ok := all[name]; ok {
			checkers[name] = fn
		}
	}

	return &FormatRegistry{checkers: checkers}
}

// Register adds or replaces the checker for a format.
func (r *FormatRegistry) Register(format string, fn FormatFunc) *FormatRegistry {
	r.checkers[format] = fn
	return r
}

// Formats returns the known format names in lexical order.
func (r *FormatRegistry) Formats() []string {
	return slices.Sorted(maps.Keys(r.checkers))
}

// Check implements [FormatChecker].
func (r *FormatRegistry) Check(instance any, format string) error {
	fn, ok := r.checkers[format]
	if !ok {
		return nil
	}

	cause := fn(instance)
	if cause == nil {
		return nil
	}
	if errors.Is(cause, errNonConforming) {
		cause = nil
	}

	return &FormatError{
		Format:  format,
		Value:   instance,
		Message: fmt.Sprintf("%s is not a %s", jsonvalue.Repr(instance), jsonvalue.QuoteString(format)),
		Cause:   cause,
	}
}

// Conforms reports whether instance conforms to format.
func Conforms(fc FormatChecker, instance any, format string) bool {
	return fc.Check(instance, format) == nil
}

// errNonConforming marks a rejected value that has no more specific cause.
var errNonConforming = errors.New("value does not conform")

// tags validates single values with go-playground validator tags.
var tags = validator.New(validator.WithRequiredStructEnabled())

// tagFormat checks strings with a go-playground validator tag.
func tagFormat(tag string) FormatFunc {
	return stringFormat(func(s string) error {
		return tags.Var(s, tag)
	})
}

// stringFormat applies fn to strings and accepts every other kind.
func stringFormat(fn func(string) error) FormatFunc {
	return func(instance any) error {
		s, ok := instance.(string)
		if !ok {
			return nil
		}

		return fn(s)
	}
}

func layoutFormat(layout string) FormatFunc {
	return stringFormat(func(s string) error {
		_, err := time.Parse(layout, strings.ToUpper(s))
		return err
	})
}

var (
	formatEmail    = tagFormat("email")
	formatIPv4     = tagFormat("ipv4")
	formatIPv6     = tagFormat("ipv6")
	formatHostname = tagFormat("hostname_rfc1123")
	formatDateTime = layoutFormat(time.RFC3339Nano)
	formatDate     = layoutFormat(time.DateOnly)
	formatTime     = layoutFormat("15:04:05.999999999Z07:00")
	formatLegacy   = layoutFormat(time.TimeOnly)
)

var formatURI = stringFormat(func(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if !u.IsAbs() {
		return errNonConforming
	}

	return tags.Var(s, "uri")
})

var formatURIReference = stringFormat(func(s string) error {
	_, err := url.Parse(s)
	return err
})

var formatRegex = stringFormat(func(s string) error {
	_, err := regexp.Compile(s)
	return err
})

var formatColor = stringFormat(func(s string) error {
	if _, ok := css21Colors[strings.ToLower(s)]; ok {
		return nil
	}

	return tags.Var(s, "hexcolor")
})

var formatJSONPointer = stringFormat(func(s string) error {
	_, err := jsonpointer.Parse(s)
	return err
})

var formatRelativeJSONPointer = stringFormat(func(s string) error {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || (i > 1 && s[0] == '0') {
		return errNonConforming
	}
	if _, err := strconv.Atoi(s[:i]); err != nil {
		return err
	}
	rest := s[i:]
	if rest == "#" {
		return nil
	}
	_, err := jsonpointer.Parse(rest)

	return err
})

var formatURITemplate = stringFormat(func(s string) error {
	open := false
	for _, r := range s {
		switch r {
		case '{':
			if open {
				return errNonConforming
			}
			open = true
		case '}':
			if !open {
				return errNonConforming
			}
			open = false
		}
	}
	if open {
		return errNonConforming
	}

	return nil
})

var css21Colors = map[string]struct{}{
	"aqua": {}, "black": {}, "blue": {}, "fuchsia": {}, "gray": {}, "green": {},
	"lime": {}, "maroon": {}, "navy": {}, "olive": {}, "orange": {}, "purple": {},
	"red": {}, "silver": {}, "teal": {}, "white": {}, "yellow": {},
}

func allFormats() map[string]FormatFunc {
	all := make(map[string]FormatFunc)
	for _, set := range []map[string]FormatFunc{draft3Formats(), draft4Formats(), draft6Formats(), draft7Formats()} {
		maps.Copy(all, set)
	}
	// draft-3 "time" has no offset; later drafts use the draft-7 meaning.
	all["time"] = formatTime

	return all
}

func draft3Formats() map[string]FormatFunc {
	return map[string]FormatFunc{
		"email":      formatEmail,
		"ip-address": formatIPv4,
		"ipv6":       formatIPv6,
		"host-name":  formatHostname,
		"uri":        formatURI,
		"date-time":  formatDateTime,
		"regex":      formatRegex,
		"date":       formatDate,
		"time":       formatLegacy,
		"color":      formatColor,
	}
}

func draft4Formats() map[string]FormatFunc {
	return map[string]FormatFunc{
		"email":     formatEmail,
		"ipv4":      formatIPv4,
		"ipv6":      formatIPv6,
		"hostname":  formatHostname,
		"uri":       formatURI,
		"date-time": formatDateTime,
		"regex":     formatRegex,
	}
}

func draft6Formats() map[string]FormatFunc {
	f := draft4Formats()
	f["uri-reference"] = formatURIReference
	f["json-pointer"] = formatJSONPointer
	f["uri-template"] = formatURITemplate

	return f
}

func draft7Formats() map[string]FormatFunc {
	f := draft6Formats()
	f["date"] = formatDate
	f["time"] = formatTime
	f["iri"] = formatURI
	f["iri-reference"] = formatURIReference
	f["idn-email"] = formatEmail
	f["relative-json-pointer"] = formatRelativeJSONPointer

	return f
}

var (
	// Draft3FormatChecker checks the formats defined by draft 3.
	Draft3FormatChecker FormatChecker = &FormatRegistry{checkers: draft3Formats()}
	// Draft4FormatChecker checks the formats defined by draft 4.
	Draft4FormatChecker FormatChecker = &FormatRegistry{checkers: draft4Formats()}
	// Draft6FormatChecker checks the formats defined by draft 6.
	Draft6FormatChecker FormatChecker = &FormatRegistry{checkers: draft6Formats()}
	// Draft7FormatChecker checks the formats defined by draft 7.
	Draft7FormatChecker FormatChecker = &FormatRegistry{checkers: draft7Formats()}
)
