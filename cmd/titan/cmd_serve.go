// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/OpulentiaAI/titan/services/selection"
)

// runServe handles `titan serve`.
//
// Configuration precedence, lowest to highest:
//  1. Built-in defaults
//  2. YAML config file (--config)
//  3. Environment variables (TITAN_PORT, OTEL_EXPORTER_OTLP_ENDPOINT)
//  4. Command-line flags (--port)
func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadServeConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	slog.Info("Starting selection service",
		"port", cfg.Port,
		"metrics", cfg.EnableMetrics,
		"tracing", cfg.EnableTracing,
	)

	svc, err := selection.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create selection service: %v", err)
	}

	if err := svc.Run(); err != nil {
		log.Fatalf("Selection service error: %v", err)
	}
}

// loadServeConfig builds the service configuration from file, environment,
// and flags.
func loadServeConfig() (selection.Config, error) {
	var cfg selection.Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("reading %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", configPath, err)
		}
	}

	if port := getEnvInt("TITAN_PORT", 0); port != 0 {
		cfg.Port = port
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		cfg.OTelEndpoint = endpoint
	}

	if servePort != 0 {
		cfg.Port = servePort
	}

	return cfg, nil
}

// getEnvInt returns the environment variable as an int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
