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
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"rivaas.dev/jsonschema/jsonvalue"
)

// ErrUnknownType is returned when no codec is registered for a type, extension
// or media type.
var ErrUnknownType = errors.New("unknown codec type")

// Registry holds the registered encoders, decoders and file extensions.
type Registry struct {
	mu         sync.RWMutex
	encoders   map[Type]Encoder
	decoders   map[Type]Decoder
	extensions map[string]Type
	mediaTypes map[string]Type
}

var registry = &Registry{
	encoders:   make(map[Type]Encoder),
	decoders:   make(map[Type]Decoder),
	extensions: make(map[string]Type),
	mediaTypes: make(map[string]Type),
}

// RegisterEncoder registers an encoder for the given type.
func RegisterEncoder(name Type, encoder Encoder) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.encoders[name] = encoder
}

// RegisterDecoder registers a decoder for the given type.
func RegisterDecoder(name Type, decoder Decoder) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.decoders[name] = decoder
}

// RegisterExtension maps file extensions (with or without the leading dot) and
// media types to a codec type. Entries containing "/" are treated as media types.
func RegisterExtension(name Type, extensionsOrMediaTypes ...string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for _, e := range extensionsOrMediaTypes {
		e = strings.ToLower(e)
		if strings.Contains(e, "/") {
			registry.mediaTypes[e] = name
			continue
		}
		registry.extensions[strings.TrimPrefix(e, ".")] = name
	}
}

// GetEncoder retrieves the registered encoder for the given type.
func GetEncoder(name Type) (Encoder, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	encoder, exists := registry.encoders[name]
	if !exists {
		return nil, fmt.Errorf("%w: encoder not found for type: %s", ErrUnknownType, name)
	}

	return encoder, nil
}

// GetDecoder retrieves the registered decoder for the given type.
func GetDecoder(name Type) (Decoder, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	decoder, exists := registry.decoders[name]
	if !exists {
		return nil, fmt.Errorf("%w: decoder not found for type: %s", ErrUnknownType, name)
	}

	return decoder, nil
}

// TypeForPath returns the codec type registered for the extension of path.
func TypeForPath(path string) (Type, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	registry.mu.RLock()
	defer registry.mu.RUnlock()
	t, ok := registry.extensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: no codec for extension %q", ErrUnknownType, ext)
	}

	return t, nil
}

// TypeForMediaType returns the codec type registered for a Content-Type header
// value. Parameters such as charset are ignored, and "+json" / "+yaml" structured
// syntax suffixes are honoured.
func TypeForMediaType(contentType string) (Type, error) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnknownType, err)
	}

	registry.mu.RLock()
	defer registry.mu.RUnlock()
	if t, ok := registry.mediaTypes[mt]; ok {
		return t, nil
	}
	if i := strings.LastIndexByte(mt, '+'); i >= 0 {
		if t, ok := registry.extensions[mt[i+1:]]; ok {
			return t, nil
		}
	}

	return "", fmt.Errorf("%w: no codec for media type %q", ErrUnknownType, mt)
}

// DecodeDocument decodes data with the codec registered for name and normalizes
// the result into the JSON value model.
func DecodeDocument(name Type, data []byte) (any, error) {
	decoder, err := GetDecoder(name)
	if err != nil {
		return nil, err
	}

	var doc any
	if err = decoder.Decode(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s document: %w", name, err)
	}

	normalized, err := jsonvalue.Normalize(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s document: %w", name, err)
	}

	return normalized, nil
}
