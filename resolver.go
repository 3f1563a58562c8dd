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
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"rivaas.dev/jsonschema/jsonpointer"
	"rivaas.dev/jsonschema/jsonvalue"
	"rivaas.dev/jsonschema/loader"
)

// Resolver resolves $ref values to schema documents.
//
// It keeps a stack of resolution scopes, pushed as the engine enters schemas
// with an id and referenced documents, against which relative references are
// joined. Documents are looked up in a store keyed by normalized URI, which is
// seeded with every registered meta-schema and the root schema itself. Unknown
// documents are fetched through a [loader.Func] chosen by URI scheme.
//
// The scope stack makes a Resolver unsafe for concurrent use. The store is
// guarded, so resolvers created with [Resolver.Clone] may share it across
// goroutines.
type Resolver struct {
	baseURI     string
	referrer    any
	scopes      []string
	store       *documentStore
	cacheRemote bool
	handlers    map[string]loader.Func
	ctx         context.Context //nolint:containedctx // passed to fetch functions
	logger      *slog.Logger
	telemetry   *telemetry
}

// documentStore maps normalized URIs to documents.
type documentStore struct {
	mu   sync.RWMutex
	docs map[string]any
}

func (s *documentStore) get(uri string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[normalizeURI(uri)]

	return doc, ok
}

func (s *documentStore) set(uri string, doc any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[normalizeURI(uri)] = doc
}

// NewResolver creates a resolver whose base document is referrer, identified by
// baseURI. Options other than store, handler, context, logging and telemetry
// settings are ignored.
func NewResolver(baseURI string, referrer any, opts ...Option) (*Resolver, error) {
	cfg := applyOptions(opts...)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	tel, err := newTelemetry(cfg.meterProvider, cfg.tracerProvider)
	if err != nil {
		return nil, err
	}

	return newResolver(baseURI, referrer, cfg, tel), nil
}

// ResolverFromSchema creates a resolver for schema, using its id (as read by
// the dialect) as the base URI.
func ResolverFromSchema(schema any, dialect *Dialect, opts ...Option) (*Resolver, error) {
	return NewResolver(dialect.IDOf(schema), schema, opts...)
}

func newResolver(baseURI string, referrer any, cfg *config, tel *telemetry) *Resolver {
	store := &documentStore{docs: make(map[string]any)}
	for _, d := range Dialects() {
		store.set(d.IDOf(d.MetaSchema()), d.MetaSchema())
	}
	for uri, doc := range cfg.store {
		store.set(uri, doc)
	}
	store.set(baseURI, referrer)

	return &Resolver{
		baseURI:     baseURI,
		referrer:    referrer,
		scopes:      []string{baseURI},
		store:       store,
		cacheRemote: cfg.cacheRemote,
		handlers:    cfg.defaultHandlers(),
		ctx:         cfg.ctx,
		logger:      cfg.logger,
		telemetry:   tel,
	}
}

// Clone returns a resolver with a fresh scope stack that shares this
// resolver's document store.
func (r *Resolver) Clone() *Resolver {
	c := *r
	c.scopes = []string{r.baseURI}

	return &c
}

// ResolutionScope returns the scope that relative references are joined against.
func (r *Resolver) ResolutionScope() string {
	if len(r.scopes) == 0 {
		return ""
	}

	return r.scopes[len(r.scopes)-1]
}

// BaseURI returns the resolution scope without its fragment.
func (r *Resolver) BaseURI() string {
	uri, _ := splitFragment(r.ResolutionScope())
	return uri
}

// PushScope joins scope against the current resolution scope and makes the
// result the new resolution scope.
func (r *Resolver) PushScope(scope string) {
	r.scopes = append(r.scopes, joinURI(r.ResolutionScope(), scope))
}

// PopScope restores the previous resolution scope.
//
// Errors:
//   - [*RefResolutionError] wrapping [ErrEmptyScopeStack] if nothing is left to pop
func (r *Resolver) PopScope() error {
	if len(r.scopes) == 0 {
		return &RefResolutionError{
			Message: "Failed to pop the scope from an empty stack. PopScope should only be called once for every PushScope",
			Err:     ErrEmptyScopeStack,
		}
	}
	r.scopes = r.scopes[:len(r.scopes)-1]

	return nil
}

func (r *Resolver) popScope() {
	_ = r.PopScope()
}

// resetScopes discards every scope above the base URI.
func (r *Resolver) resetScopes() {
	r.scopes = append(r.scopes[:0], r.baseURI)
}

// InScope runs fn with scope pushed, popping it afterwards even if fn panics.
func (r *Resolver) InScope(scope string, fn func() error) error {
	r.PushScope(scope)
	defer r.popScope()

	return fn()
}

// Resolving resolves ref and runs fn with the resolved document while the
// reference's URL is the resolution scope.
func (r *Resolver) Resolving(ref string, fn func(resolved any) error) error {
	uri, resolved, err := r.Resolve(ref)
	if err != nil {
		return err
	}

	return r.InScope(uri, func() error { return fn(resolved) })
}

// Resolve joins ref against the resolution scope and returns the absolute URL
// with the document it points to.
//
// Errors:
//   - [*RefResolutionError] if the document cannot be found or fetched, or the
//     fragment does not point into it
func (r *Resolver) Resolve(ref string) (string, any, error) {
	uri := joinURI(r.ResolutionScope(), ref)
	resolved, err := r.ResolveFromURL(uri)
	if err != nil {
		return uri, nil, err
	}

	return uri, resolved, nil
}

// ResolveFromURL returns the document at an absolute URL, fetching it when it
// is not in the store.
func (r *Resolver) ResolveFromURL(uri string) (any, error) {
	docURI, fragment := splitFragment(uri)

	doc, ok := r.store.get(docURI)
	if !ok {
		var err error
		doc, err = r.ResolveRemote(docURI)
		if err != nil {
			return nil, err
		}
	}

	return r.ResolveFragment(doc, fragment)
}

// ResolveFragment resolves a URI fragment as a JSON pointer within doc.
// Leading slashes are ignored and the fragment is percent-decoded before it
// is split, so "#/definitions/a%25b" and "#definitions/a%25b" both find "a%b".
func (r *Resolver) ResolveFragment(doc any, fragment string) (any, error) {
	fragment = strings.TrimLeft(fragment, "/")
	if fragment == "" {
		return doc, nil
	}

	decoded, err := url.PathUnescape(fragment)
	if err != nil {
		decoded = fragment
	}
	tokens := strings.Split(decoded, "/")
	for i, tok := range tokens {
		tokens[i] = jsonpointer.Unescape(tok)
	}

	resolved, err := jsonpointer.Resolve(doc, tokens)
	if err != nil {
		return nil, &RefResolutionError{
			Ref:     fragment,
			Message: "Unresolvable JSON pointer: " + jsonvalue.QuoteString(fragment),
			Err:     err,
		}
	}

	return resolved, nil
}

// ResolveRemote fetches the document at uri with the handler registered for
// its scheme and caches it when remote caching is enabled.
//
// Errors:
//   - [*RefResolutionError] if no handler serves the scheme or the fetch fails
func (r *Resolver) ResolveRemote(uri string) (any, error) {
	var scheme string
	if u, err := url.Parse(uri); err == nil {
		scheme = u.Scheme
	}

	fetch, ok := r.handlers[scheme]
	if !ok {
		return nil, newRefResolutionError(uri, fmt.Errorf("no handler for URI scheme %q", scheme))
	}

	start := time.Now()
	ctx, done := r.telemetry.startFetch(r.ctx, uri, scheme)
	doc, err := fetch(ctx, uri)
	done(err)

	if err != nil {
		r.logger.Debug("remote reference fetch failed", "uri", uri, "scheme", scheme, "error", err)
		return nil, newRefResolutionError(uri, err)
	}

	r.logger.Debug("fetched remote reference",
		"uri", uri,
		"scheme", scheme,
		"cached", r.cacheRemote,
		"duration", time.Since(start),
	)

	if r.cacheRemote {
		r.store.set(uri, doc)
	}

	return doc, nil
}

// AddDocument stores doc under uri so references to it resolve without fetching.
func (r *Resolver) AddDocument(uri string, doc any) {
	r.store.set(uri, doc)
}

// joinURI resolves ref against base following RFC 3986. The base's fragment
// never carries over, so "#" names the root of the current document.
func joinURI(base, ref string) string {
	if base == "" {
		return ref
	}
	if ref == "" {
		return base
	}
	base, _ = splitFragment(base)
	if base == "" {
		return ref
	}

	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	rf, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	return b.ResolveReference(rf).String()
}

// splitFragment splits uri into the document URI and the fragment.
func splitFragment(uri string) (string, string) {
	doc, fragment, _ := strings.Cut(uri, "#")
	return doc, fragment
}

// normalizeURI gives equivalent spellings of a URI the same store key. An
// empty trailing fragment is dropped.
func normalizeURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}

	return u.String()
}
