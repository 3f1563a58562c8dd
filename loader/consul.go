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
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/consul/api"
)

// ConsulKV defines the interface for Consul key-value operations.
// This interface enables testing by allowing mock implementations.
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// NewConsulKV creates a key-value client configured from the environment:
//   - CONSUL_HTTP_ADDR: The address of the Consul server (e.g., "http://localhost:8500")
//   - CONSUL_HTTP_TOKEN: The access token for authentication (optional)
func NewConsulKV() (ConsulKV, error) {
	client, err := api.NewClient(api.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	return client.KV(), nil
}

// Consul returns a [Func] that reads consul:// URIs from Consul's key-value
// store. The key is the URI host and path, so consul://schemas/person.json
// reads the key "schemas/person.json". Values are decoded by the key's
// extension, defaulting to JSON.
func Consul(kv ConsulKV) Func {
	return func(ctx context.Context, uri string) (any, error) {
		key, err := consulKey(uri)
		if err != nil {
			return nil, err
		}

		pair, _, err := kv.Get(key, (&api.QueryOptions{}).WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to get consul key: %w", err)
		}
		if pair == nil {
			return nil, fmt.Errorf("%w: consul key %q", ErrNotFound, key)
		}

		doc, err := decode(pair.Value, typeForPath(key))
		if err != nil {
			return nil, fmt.Errorf("failed to decode consul value: %w", err)
		}

		return doc, nil
	}
}

func consulKey(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid consul URI %q: %w", uri, err)
	}
	if u.Scheme != "consul" {
		return "", fmt.Errorf("not a consul URI: %q", uri)
	}

	key := strings.Trim(u.Host+u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("consul URI has no key: %q", uri)
	}

	return key, nil
}
