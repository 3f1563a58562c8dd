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
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "rivaas.dev/jsonschema"

// telemetry holds the instruments shared by validators and resolvers.
type telemetry struct {
	tracer           trace.Tracer
	validations      metric.Int64Counter
	validationErrors metric.Int64Counter
	refFetches       metric.Int64Counter
	refFetchDuration metric.Float64Histogram
}

// newTelemetry creates instruments from the given providers, falling back to
// the global providers when nil.
func newTelemetry(mp metric.MeterProvider, tp trace.TracerProvider) (*telemetry, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	meter := mp.Meter(instrumentationName)
	t := &telemetry{tracer: tp.Tracer(instrumentationName)}

	var err error
	t.validations, err = meter.Int64Counter(
		"jsonschema.validations",
		metric.WithDescription("Total number of instance validations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create validations counter: %w", err)
	}

	t.validationErrors, err = meter.Int64Counter(
		"jsonschema.validation.errors",
		metric.WithDescription("Total number of validation errors reported"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create validation errors counter: %w", err)
	}

	t.refFetches, err = meter.Int64Counter(
		"jsonschema.ref.fetches",
		metric.WithDescription("Total number of remote reference fetches"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ref fetch counter: %w", err)
	}

	t.refFetchDuration, err = meter.Float64Histogram(
		"jsonschema.ref.fetch.duration",
		metric.WithDescription("Duration of remote reference fetches in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ref fetch duration histogram: %w", err)
	}

	return t, nil
}

// recordValidation counts one finished validation.
func (t *telemetry) recordValidation(ctx context.Context, dialect string, errs int) {
	attrs := metric.WithAttributes(
		attribute.String("dialect", dialect),
		attribute.Bool("valid", errs == 0),
	)
	t.validations.Add(ctx, 1, attrs)
	if errs > 0 {
		t.validationErrors.Add(ctx, int64(errs), metric.WithAttributes(attribute.String("dialect", dialect)))
	}
}

// startFetch opens a span for a remote fetch and returns a function that ends
// it and records the outcome.
func (t *telemetry) startFetch(ctx context.Context, uri, scheme string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := t.tracer.Start(ctx, "jsonschema.ResolveRemote",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("jsonschema.ref.uri", uri),
			attribute.String("jsonschema.ref.scheme", scheme),
		),
	)

	return ctx, func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()

		attrs := metric.WithAttributes(
			attribute.String("scheme", scheme),
			attribute.String("outcome", outcome),
		)
		t.refFetches.Add(ctx, 1, attrs)
		t.refFetchDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

// discardLogger is the default logger; it drops every record.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
