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
	"cmp"
)

// DefaultWeakMatches are the keywords whose errors say the least about what
// went wrong: they only report that no alternative matched.
var DefaultWeakMatches = []string{"anyOf", "oneOf"}

// Relevance orders validation errors by how well they explain a failure.
//
// An error is more relevant when its instance path is shorter, when its
// keyword is not weak, and when its keyword is strong, compared in that order.
// Errors equal on all three are ordered by schema path, keyword, message and
// instance path, so the ordering never depends on the order errors arrive in.
type Relevance struct {
	weak   map[string]struct{}
	strong map[string]struct{}
}

// RelevanceOption configures a [Relevance].
type RelevanceOption func(*Relevance)

// WeakMatches replaces the weak keywords. The default is [DefaultWeakMatches].
func WeakMatches(keywords ...string) RelevanceOption {
	return func(r *Relevance) {
		r.weak = set(keywords)
	}
}

// StrongMatches sets the strong keywords. There are none by default.
func StrongMatches(keywords ...string) RelevanceOption {
	return func(r *Relevance) {
		r.strong = set(keywords)
	}
}

// ByRelevance creates a relevance ordering.
func ByRelevance(opts ...RelevanceOption) *Relevance {
	r := &Relevance{
		weak:   set(DefaultWeakMatches),
		strong: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func set(keywords []string) map[string]struct{} {
	out := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		out[k] = struct{}{}
	}

	return out
}

// rank compares a and b on path depth, weakness and strength only. A positive
// result means a is more relevant.
func (r *Relevance) rank(a, b *ValidationError) int {
	if c := cmp.Compare(len(b.Path), len(a.Path)); c != 0 {
		return c
	}
	if c := compareBool(!r.isWeak(a), !r.isWeak(b)); c != 0 {
		return c
	}

	return compareBool(r.isStrong(a), r.isStrong(b))
}

// Compare is a total order over errors for use with slices.SortFunc. A
// positive result means a is more relevant than b.
func (r *Relevance) Compare(a, b *ValidationError) int {
	if c := r.rank(a, b); c != 0 {
		return c
	}

	return -tiebreak(a, b)
}

func (r *Relevance) isWeak(e *ValidationError) bool {
	_, ok := r.weak[e.Keyword]
	return ok
}

func (r *Relevance) isStrong(e *ValidationError) bool {
	_, ok := r.strong[e.Keyword]
	return ok
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

// tiebreak orders errors of equal rank lexically.
func tiebreak(a, b *ValidationError) int {
	return cmp.Or(
		cmp.Compare(a.SchemaPath.String(), b.SchemaPath.String()),
		cmp.Compare(a.Keyword, b.Keyword),
		cmp.Compare(a.Message, b.Message),
		cmp.Compare(a.Path.String(), b.Path.String()),
	)
}

// BestMatch picks the error that best explains why validation failed, or nil
// if errs is empty.
//
// It takes the most relevant error and then, while the chosen error has a
// context, descends into the least relevant error of that context: the deepest
// error beneath an anyOf or oneOf is usually the one the caller wants to see.
//
// Example:
//
//	errs, err := v.Errors(instance)
//	if err != nil {
//	    return err
//	}
//	if best := jsonschema.BestMatch(errs); best != nil {
//	    fmt.Println(best.Message)
//	}
func BestMatch(errs []*ValidationError, opts ...RelevanceOption) *ValidationError {
	if len(errs) == 0 {
		return nil
	}
	r := ByRelevance(opts...)

	best := errs[0]
	for _, e := range errs[1:] {
		if r.Compare(e, best) > 0 {
			best = e
		}
	}

	for len(best.Context) > 0 {
		next := best.Context[0]
		for _, e := range best.Context[1:] {
			if c := r.rank(e, next); c < 0 || (c == 0 && tiebreak(e, next) < 0) {
				next = e
			}
		}
		best = next
	}

	return best
}
