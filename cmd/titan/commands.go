// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	candidateList []string
	selectK       int
	selectAlpha   float64
	expandQuery   bool
	jsonOutput    bool
	compactOutput bool

	configPath string
	servePort  int

	rootCmd = &cobra.Command{
		Use:   "titan",
		Short: "A cli for diverse-candidate selection over query variants",
		Long: `Titan picks a small, mutually dissimilar subset from a list of
query variants, so downstream exploration covers more of the task
space per unit of budget.`,
	}

	// --- Selection ---
	selectCmd = &cobra.Command{
		Use:   "select [query]",
		Short: "Pick a diverse candidate subset for a query",
		Args:  cobra.ExactArgs(1),
		Run:   runSelect, // Defined in cmd_select.go
	}

	complexityCmd = &cobra.Command{
		Use:   "complexity [query]",
		Short: "Estimate query complexity and the recommended selection size",
		Args:  cobra.ExactArgs(1),
		Run:   runComplexity, // Defined in cmd_select.go
	}

	expandCmd = &cobra.Command{
		Use:   "expand [query]",
		Short: "Expand a query into heuristic template variants",
		Args:  cobra.ExactArgs(1),
		Run:   runExpand, // Defined in cmd_select.go
	}

	// --- Service ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the selection HTTP service",
		Run:   runServe, // Defined in cmd_serve.go
	}
)

func init() {
	selectCmd.Flags().StringArrayVar(&candidateList, "candidates", nil,
		"Candidate variant (repeatable). Omit with --expand to generate variants.")
	selectCmd.Flags().IntVar(&selectK, "k", 0,
		"Number of candidates to select. 0 uses the complexity estimator.")
	selectCmd.Flags().Float64Var(&selectAlpha, "alpha", -1,
		"Relevance weighting in [0,1]. Negative uses the engine default.")
	selectCmd.Flags().BoolVar(&expandQuery, "expand", false,
		"Expand the query into template variants and add them to the candidates.")

	for _, cmd := range []*cobra.Command{selectCmd, complexityCmd, expandCmd} {
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
		cmd.Flags().BoolVar(&compactOutput, "compact", false, "JSON without indentation")
	}

	serveCmd.Flags().StringVar(&configPath, "config", "",
		"Path to a YAML config file (optional)")
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"HTTP port override (0 keeps the config/default value)")

	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(complexityCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(serveCmd)
}
