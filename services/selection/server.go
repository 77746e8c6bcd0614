// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package selection provides the HTTP service around the diverse-candidate
// selection engine.
//
// The service exposes endpoints for:
//   - Selecting a diverse candidate subset for a query
//   - Estimating query complexity
//   - Expanding a query into heuristic template variants
package selection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/OpulentiaAI/titan/services/selection/diverse"
	"github.com/OpulentiaAI/titan/services/selection/observability"
)

// Service defines the contract for the selection service.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and should
// only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	Router() *gin.Engine
}

// Config holds selection service configuration options.
//
// # Description
//
// Config centralizes all configuration for the service. Values can be
// populated from a YAML config file, environment variables, or
// programmatically for testing. Zero values use defaults applied by New().
type Config struct {
	// Port is the HTTP server port. Default: 12230
	Port int `yaml:"port"`

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "localhost:4317"
	OTelEndpoint string `yaml:"otel_endpoint"`

	// EnableTracing enables OTLP trace export. When false, spans are
	// created against the global no-op provider.
	// Default: false
	EnableTracing bool `yaml:"enable_tracing"`

	// EnableMetrics enables the Prometheus /metrics endpoint.
	// Default: true
	EnableMetrics bool `yaml:"enable_metrics"`

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	GinMode string `yaml:"gin_mode"`

	// Dim is the embedding dimension for the selection engine.
	// Default: 128
	Dim int `yaml:"dim"`

	// Alpha is the relevance weighting parameter in [0, 1].
	// A zero value means "unset" and falls back to the default; a literal
	// alpha of 0 can still be requested per call via the request body's
	// alpha field.
	// Default: 0.3
	Alpha float64 `yaml:"alpha"`

	// DisableSelection turns the engine into a pass-through that returns
	// all candidates unchanged. Useful for A/B comparison.
	// Default: false
	DisableSelection bool `yaml:"disable_selection"`
}

// service implements Service for production use.
//
// # Thread Safety
//
// Thread-safe after construction. All fields are read-only after New()
// returns.
type service struct {
	config        Config
	router        *gin.Engine
	selector      *diverse.Selector
	metrics       *observability.SelectionMetrics
	tracerCleanup func(context.Context)
	meterCleanup  func(context.Context)
}

// New creates a new selection Service with the given configuration.
//
// # Description
//
// New initializes all service components:
//  1. Applies default configuration for missing values
//  2. Initializes OTLP tracing when enabled
//  3. Initializes Prometheus metrics when enabled
//  4. Creates the selection engine
//  5. Sets up HTTP routes
//
// # Inputs
//
//   - cfg: Service configuration. Zero values use defaults.
//
// # Outputs
//
//   - Service: Ready-to-run selection service
//   - error: Non-nil if initialization fails
//
// # Examples
//
//	svc, err := selection.New(selection.Config{Port: 12230})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	if s.config.EnableTracing {
		cleanup, err := s.initTracer()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	if s.config.EnableMetrics {
		// InitMetrics panics on duplicate registration, so reuse the
		// instance when New is called more than once in a process (tests).
		if observability.DefaultMetrics == nil {
			observability.InitMetrics()
		}
		s.metrics = observability.DefaultMetrics

		cleanup, err := s.initMeter()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize meter: %w", err)
		}
		s.meterCleanup = cleanup
		slog.Info("Initialized Prometheus metrics for selection")
	}

	s.selector = diverse.NewSelector(diverse.Config{
		Dim:     s.config.Dim,
		Alpha:   s.config.Alpha,
		Enabled: !s.config.DisableSelection,
	})

	s.initRouter()

	return s, nil
}

// Run starts the HTTP server and blocks until shutdown or error.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting selection server", "port", s.config.Port)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12230
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "localhost:4317"
	}
	if cfg.Dim == 0 {
		cfg.Dim = diverse.DefaultDim
	}
	if cfg.Alpha == 0 {
		cfg.Alpha = diverse.DefaultAlpha
	}
	return cfg
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// # Description
//
// Sets up the OTLP trace exporter to send spans to the configured
// collector.
//
// # Outputs
//
//   - func(context.Context): Cleanup function to call on shutdown
//   - error: Non-nil if tracer setup fails
//
// # Limitations
//
//   - Uses insecure gRPC connection (appropriate for internal networks)
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("selection-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initMeter installs the global OpenTelemetry MeterProvider.
//
// # Description
//
// Backs the OTel instruments inside the selection engine with a Prometheus
// exporter that registers against the default Prometheus registry, so the
// existing /metrics endpoint serves them alongside the promauto metrics.
// Without this the engine's meters record into the global no-op provider.
//
// # Outputs
//
//   - func(context.Context): Cleanup function to call on shutdown
//   - error: Non-nil if exporter setup fails
func (s *service) initMeter() (func(context.Context), error) {
	provider, err := newMeterProvider(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}

	otel.SetMeterProvider(provider)

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown meter provider", "error", err)
		}
	}

	return cleanup, nil
}

// newMeterProvider builds a MeterProvider backed by a Prometheus exporter
// registered with reg.
func newMeterProvider(reg prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceNameKey.String("selection-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	), nil
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}

	s.router = gin.Default()
	s.router.Use(otelgin.Middleware("selection-service"))

	handlers := NewHandlers(s.selector, s.metrics)

	v1 := s.router.Group("/v1")
	RegisterRoutes(v1, handlers)

	s.router.GET("/health", handlers.HandleHealth)
	if s.config.EnableMetrics {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// cleanup releases all resources held by the service.
func (s *service) cleanup() {
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
	if s.meterCleanup != nil {
		s.meterCleanup(context.Background())
	}
}
