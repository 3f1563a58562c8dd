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
	"errors"
	"log/slog"
	"maps"
	"net/http"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/jsonschema/loader"
)

// DefaultMaxRefDepth is the default bound on nested $ref evaluation.
const DefaultMaxRefDepth = 1000

// Option configures a [Validator] or a [Resolver].
type Option func(*config)

// config holds the settings shared by validators and resolvers.
type config struct {
	dialect        *Dialect
	formatChecker  FormatChecker
	formatSet      bool
	resolver       *Resolver
	store          map[string]any
	handlers       map[string]loader.Func
	httpClient     *http.Client
	cacheRemote    bool
	ctx            context.Context //nolint:containedctx // used for remote fetches during evaluation
	logger         *slog.Logger
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	maxRefDepth    int
}

func newConfig() *config {
	return &config{
		store:       make(map[string]any),
		handlers:    make(map[string]loader.Func),
		cacheRemote: true,
		ctx:         context.Background(),
		logger:      discardLogger(),
		maxRefDepth: DefaultMaxRefDepth,
	}
}

func applyOptions(opts ...Option) *config {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// validate checks the configuration for invalid values.
func (c *config) validate() error {
	if c.maxRefDepth <= 0 {
		return errors.New("maxRefDepth must be positive")
	}
	if c.ctx == nil {
		return errors.New("context must not be nil")
	}
	if c.logger == nil {
		return errors.New("logger must not be nil")
	}

	return nil
}

// defaultHandlers returns the fetch functions for http, https and file URIs,
// overridden by any handlers set with [WithHandler].
func (c *config) defaultHandlers() map[string]loader.Func {
	web := loader.HTTP(c.httpClient)
	handlers := map[string]loader.Func{
		"http":  web,
		"https": web,
		"file":  loader.File(),
	}
	maps.Copy(handlers, c.handlers)

	return handlers
}

// WithDialect selects the dialect used for validation. Without it, [New] picks
// the dialect from the schema's $schema keyword, defaulting to [Draft7].
//
// Example:
//
//	v, err := jsonschema.New(schema, jsonschema.WithDialect(jsonschema.Draft4))
func WithDialect(d *Dialect) Option {
	return func(c *config) {
		c.dialect = d
	}
}

// WithFormatChecker enables the format keyword with the given checker. Pass nil
// to disable format checking even if the dialect has a default checker.
//
// Example:
//
//	v, err := jsonschema.New(schema, jsonschema.WithFormatChecker(jsonschema.Draft7FormatChecker))
func WithFormatChecker(fc FormatChecker) Option {
	return func(c *config) {
		c.formatChecker = fc
		c.formatSet = true
	}
}

// WithResolver uses an existing resolver instead of creating one from the
// schema. The resolver's scope stack is owned by the validator afterwards.
func WithResolver(r *Resolver) Option {
	return func(c *config) {
		c.resolver = r
	}
}

// WithStore pre-populates the resolver store with documents keyed by URI.
func WithStore(store map[string]any) Option {
	return func(c *config) {
		maps.Copy(c.store, store)
	}
}

// WithDocument adds a single document to the resolver store.
func WithDocument(uri string, doc any) Option {
	return func(c *config) {
		c.store[uri] = doc
	}
}

// WithHandler registers a fetch function for a URI scheme, replacing the
// built-in handler for http, https or file.
//
// Example:
//
//	kv, _ := loader.NewConsulKV()
//	v, err := jsonschema.New(schema, jsonschema.WithHandler("consul", loader.Consul(kv)))
func WithHandler(scheme string, fn loader.Func) Option {
	return func(c *config) {
		c.handlers[scheme] = fn
	}
}

// WithHTTPClient sets the client used by the built-in http and https handlers.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithRemoteCache controls whether fetched remote documents are stored for
// reuse. Enabled by default.
func WithRemoteCache(enabled bool) Option {
	return func(c *config) {
		c.cacheRemote = enabled
	}
}

// WithContext sets the context passed to fetch functions. Cancelling it aborts
// pending remote fetches, which then fail with a [*RefResolutionError].
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

// WithLogger sets the logger for debug records about scopes, remote fetches
// and schema checks. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider. By default the
// global provider is used.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(c *config) {
		c.meterProvider = provider
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider used for remote
// fetch spans. By default the global provider is used.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *config) {
		c.tracerProvider = provider
	}
}

// WithMaxRefDepth bounds how many $ref evaluations may be nested. Exceeding the
// bound fails validation with an error wrapping [ErrMaxRefDepth].
func WithMaxRefDepth(depth int) Option {
	return func(c *config) {
		c.maxRefDepth = depth
	}
}
