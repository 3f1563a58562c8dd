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

import "maps"

// ErrorTree indexes validation errors by the instance path they occurred at.
//
// Each node holds the errors raised directly at its path, keyed by keyword,
// and one child per path segment below it.
//
// Example:
//
//	tree := jsonschema.NewErrorTree(errs...)
//	if tree.Child("items").Child(0).Contains("name") {
//	    // the first item's name has errors
//	}
type ErrorTree struct {
	errors   map[string]*ValidationError
	children map[any]*ErrorTree
}

// NewErrorTree builds a tree from errs. When two errors share a path and a
// keyword, the later one wins.
func NewErrorTree(errs ...*ValidationError) *ErrorTree {
	t := newErrorNode()
	for _, e := range errs {
		node := t
		for _, seg := range e.Path {
			child, ok := node.children[seg]
			if !ok {
				child = newErrorNode()
				node.children[seg] = child
			}
			node = child
		}
		node.errors[e.Keyword] = e
	}

	return t
}

func newErrorNode() *ErrorTree {
	return &ErrorTree{
		errors:   make(map[string]*ValidationError),
		children: make(map[any]*ErrorTree),
	}
}

// Errors returns the errors at this node keyed by keyword.
func (t *ErrorTree) Errors() map[string]*ValidationError {
	return maps.Clone(t.errors)
}

// ErrorFor returns the error raised by keyword at this node, if any.
func (t *ErrorTree) ErrorFor(keyword string) (*ValidationError, bool) {
	e, ok := t.errors[keyword]
	return e, ok
}

// Contains reports whether any error lies at or below the path segment seg.
// Segments are property names (string) or array indices (int).
func (t *ErrorTree) Contains(seg any) bool {
	_, ok := t.children[seg]
	return ok
}

// Child returns the subtree for seg. A segment without errors yields an empty
// tree, never nil.
func (t *ErrorTree) Child(seg any) *ErrorTree {
	if child, ok := t.children[seg]; ok {
		return child
	}

	return newErrorNode()
}

// Len returns the number of child segments with errors.
func (t *ErrorTree) Len() int {
	return len(t.children)
}

// TotalErrors counts the errors in the whole subtree.
func (t *ErrorTree) TotalErrors() int {
	n := len(t.errors)
	for _, child := range t.children {
		n += child.TotalErrors()
	}

	return n
}
