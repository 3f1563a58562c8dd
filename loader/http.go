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
	"net/http"
	"net/url"

	"rivaas.dev/jsonschema/codec"
)

// HTTP returns a [Func] that fetches documents with GET requests. A nil client
// uses [http.DefaultClient].
//
// The body is decoded by the response's Content-Type, falling back to the URL
// path extension and finally to JSON.
func HTTP(client *http.Client) Func {
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context, uri string) (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/schema+json, application/json, application/yaml;q=0.9, */*;q=0.1")

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", uri, err)
		}
		defer resp.Body.Close() //nolint:errcheck // read-only body

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return nil, fmt.Errorf("%w: %s returned %s", ErrStatus, uri, resp.Status)
		}

		data, err := readAll(resp.Body)
		if err != nil {
			return nil, err
		}

		return decode(data, typeForResponse(resp, uri))
	}
}

func typeForResponse(resp *http.Response, uri string) codec.Type {
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if t, err := codec.TypeForMediaType(ct); err == nil {
			return t
		}
	}
	if u, err := url.Parse(uri); err == nil {
		if t, err := codec.TypeForPath(u.Path); err == nil {
			return t
		}
	}

	return codec.TypeJSON
}
