// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diverse

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for selection operations.
var (
	tracer = otel.Tracer("titan.selection")
	meter  = otel.Meter("titan.selection")
)

// Metrics for selection operations.
var (
	selectLatency  metric.Float64Histogram
	selectTotal    metric.Int64Counter
	candidateCount metric.Int64Histogram
	diversityScore metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		selectLatency, err = meter.Float64Histogram(
			"selection_duration_seconds",
			metric.WithDescription("Duration of diverse selection runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		selectTotal, err = meter.Int64Counter(
			"selection_total",
			metric.WithDescription("Total number of diverse selection runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		candidateCount, err = meter.Int64Histogram(
			"selection_candidates",
			metric.WithDescription("Number of input candidates per selection run"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		diversityScore, err = meter.Float64Histogram(
			"selection_diversity_score",
			metric.WithDescription("Diversity score of the selected subset"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startSelectSpan creates a span for a selection run.
func startSelectSpan(ctx context.Context, candidates int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Selector.Select",
		trace.WithAttributes(
			attribute.Int("selection.candidate_count", candidates),
		),
	)
}

// setSelectSpanResult sets the result attributes on a selection span.
func setSelectSpanResult(span trace.Span, selected int, diversity float64) {
	span.SetAttributes(
		attribute.Int("selection.selected_count", selected),
		attribute.Float64("selection.diversity_score", diversity),
	)
}

// recordSelectMetrics records metrics for one selection run.
func recordSelectMetrics(ctx context.Context, duration time.Duration, candidates, selected int, diversity float64) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.Bool("truncated", selected < candidates),
	)

	selectLatency.Record(ctx, duration.Seconds(), attrs)
	selectTotal.Add(ctx, 1, attrs)
	candidateCount.Record(ctx, int64(candidates))
	diversityScore.Record(ctx, diversity)
}
