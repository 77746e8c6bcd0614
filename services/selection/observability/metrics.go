// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the selection service.
//
// # Description
//
// Metrics cover the HTTP surface of the service: request counters by
// endpoint and status, request latency histograms, and distributions of
// selection outcomes (candidate counts, diversity scores). They complement
// the OpenTelemetry instrumentation inside the selection engine itself.
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "titan"

// Subsystem for selection metrics
const selectionSubsystem = "selection"

// SelectionMetrics holds all Prometheus metrics for the selection service.
//
// # Description
//
// Initialize once at startup via InitMetrics(). Registration uses the
// default Prometheus registry, so promhttp.Handler() picks everything up.
//
// # Thread Safety
//
// All operations are thread-safe.
type SelectionMetrics struct {
	// RequestsTotal counts API requests by endpoint and status.
	// Labels: endpoint (select, complexity, expand), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds measures request handling latency.
	// Labels: endpoint
	RequestDurationSeconds *prometheus.HistogramVec

	// CandidatesPerRequest tracks the candidate pool size per select request.
	CandidatesPerRequest prometheus.Histogram

	// SelectedPerRequest tracks how many candidates each request kept.
	SelectedPerRequest prometheus.Histogram

	// DiversityScore tracks the distribution of reported diversity scores.
	DiversityScore prometheus.Histogram

	// ErrorsTotal counts errors by endpoint and error code.
	// Labels: endpoint, error_code (validation, canceled, internal)
	ErrorsTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance of SelectionMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *SelectionMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once at
// application startup.
//
// # Outputs
//
//   - *SelectionMetrics: The initialized metrics instance.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *SelectionMetrics {
	DefaultMetrics = &SelectionMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: selectionSubsystem,
				Name:      "requests_total",
				Help:      "Total API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		RequestDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: selectionSubsystem,
				Name:      "request_duration_seconds",
				Help:      "Request handling latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"endpoint"},
		),

		CandidatesPerRequest: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: selectionSubsystem,
				Name:      "candidates_per_request",
				Help:      "Candidate pool size per select request",
				Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
			},
		),

		SelectedPerRequest: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: selectionSubsystem,
				Name:      "selected_per_request",
				Help:      "Number of candidates kept per select request",
				Buckets:   []float64{0, 1, 2, 3, 5, 7, 10},
			},
		),

		DiversityScore: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: selectionSubsystem,
				Name:      "diversity_score",
				Help:      "Distribution of reported diversity scores",
				Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
			},
		),

		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: selectionSubsystem,
				Name:      "errors_total",
				Help:      "Total errors by endpoint and error code",
			},
			[]string{"endpoint", "error_code"},
		),
	}

	return DefaultMetrics
}

// ErrorCode represents a categorized error type for metrics.
type ErrorCode string

const (
	// ErrorCodeValidation indicates request validation failure.
	ErrorCodeValidation ErrorCode = "validation"

	// ErrorCodeCanceled indicates the request context expired mid-run.
	ErrorCodeCanceled ErrorCode = "canceled"

	// ErrorCodeInternal indicates internal server error.
	ErrorCodeInternal ErrorCode = "internal"
)

// Endpoint represents an API endpoint for metrics labeling.
type Endpoint string

const (
	// EndpointSelect is the diverse-selection endpoint.
	EndpointSelect Endpoint = "select"

	// EndpointComplexity is the complexity-estimation endpoint.
	EndpointComplexity Endpoint = "complexity"

	// EndpointExpand is the variant-expansion endpoint.
	EndpointExpand Endpoint = "expand"
)

// RecordRequest records a completed request with its outcome.
func (m *SelectionMetrics) RecordRequest(endpoint Endpoint, success bool, seconds float64) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(string(endpoint), status).Inc()
	m.RequestDurationSeconds.WithLabelValues(string(endpoint)).Observe(seconds)
}

// RecordSelection records the outcome shape of one select request.
func (m *SelectionMetrics) RecordSelection(candidates, selected int, diversity float64) {
	if m == nil {
		return
	}
	m.CandidatesPerRequest.Observe(float64(candidates))
	m.SelectedPerRequest.Observe(float64(selected))
	m.DiversityScore.Observe(diversity)
}

// RecordError records a categorized error for an endpoint.
func (m *SelectionMetrics) RecordError(endpoint Endpoint, code ErrorCode) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(string(endpoint), string(code)).Inc()
}
