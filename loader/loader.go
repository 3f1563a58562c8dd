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

package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"rivaas.dev/jsonschema/codec"
)

// maxDocumentSize bounds the bytes read for a single remote document.
const maxDocumentSize = 32 << 20

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrStatus is returned for unsuccessful HTTP responses.
	ErrStatus = errors.New("unexpected HTTP status")

	// ErrTooLarge is returned when a document exceeds the size limit.
	ErrTooLarge = errors.New("document too large")
)

// Func retrieves and decodes the document identified by uri.
// The returned value is in the JSON value model of package jsonvalue.
type Func func(ctx context.Context, uri string) (any, error)

// LoadFile reads path and decodes it with the codec registered for its
// extension. Files without a known extension are decoded as JSON.
//
// Errors:
//   - Returns error wrapping [ErrNotFound] if the file does not exist
//   - Returns error if decoding fails
func LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return decode(data, typeForPath(path))
}

// LoadReader reads r to the end and decodes it with the codec of type t.
func LoadReader(r io.Reader, t codec.Type) (any, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}

	return decode(data, t)
}

func typeForPath(path string) codec.Type {
	t, err := codec.TypeForPath(path)
	if err != nil {
		return codec.TypeJSON
	}

	return t
}

func decode(data []byte, t codec.Type) (any, error) {
	doc, err := codec.DecodeDocument(t, data)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, ErrTooLarge
	}

	return data, nil
}
