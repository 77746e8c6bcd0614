// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpulentiaAI/titan/services/selection/diverse"
	"github.com/OpulentiaAI/titan/services/selection/expand"
)

// runSelect handles `titan select [query]`.
//
// Builds the candidate pool from the --candidates flags, optionally augmented
// with heuristic template variants (--expand), then runs the selection engine
// and prints the chosen subset.
func runSelect(cmd *cobra.Command, args []string) {
	query := args[0]

	candidates := buildCandidatePool(query)
	if len(candidates) == 0 {
		os.Exit(OutputError("no candidates",
			fmt.Errorf("provide --candidates or use --expand")))
	}

	selector := diverse.NewSelector(diverse.DefaultConfig())

	var opts []diverse.SelectOption
	if selectK > 0 {
		opts = append(opts, diverse.WithK(selectK))
	}
	if selectAlpha >= 0 {
		opts = append(opts, diverse.WithAlpha(selectAlpha))
	}

	result, err := selector.Select(context.Background(), query, candidates, opts...)
	if err != nil {
		os.Exit(OutputError("selection failed", err))
	}

	if jsonOutput {
		if err := OutputJSON(os.Stdout, result, compactOutput); err != nil {
			os.Exit(OutputError("encoding output", err))
		}
		return
	}

	fmt.Printf("Selected %d of %d candidates (diversity %.3f):\n",
		len(result.Selected), len(result.Candidates), result.DiversityScore)
	for _, cand := range result.Selected {
		fmt.Printf("  [%d] %s (relevance %.3f)\n", cand.Index, cand.Text, cand.Relevance)
	}
}

// runComplexity handles `titan complexity [query]`.
func runComplexity(cmd *cobra.Command, args []string) {
	query := args[0]
	estimate := diverse.EstimateComplexity(query)

	if jsonOutput {
		if err := OutputJSON(os.Stdout, estimate, compactOutput); err != nil {
			os.Exit(OutputError("encoding output", err))
		}
		return
	}

	fmt.Printf("Complexity score: %.3f\n", estimate.Score)
	fmt.Printf("Recommended k:    %d\n", estimate.RecommendedK)
}

// runExpand handles `titan expand [query]`.
func runExpand(cmd *cobra.Command, args []string) {
	query := args[0]
	variants := expand.Expand(query)

	if jsonOutput {
		payload := map[string]any{"query": query, "variants": variants}
		if err := OutputJSON(os.Stdout, payload, compactOutput); err != nil {
			os.Exit(OutputError("encoding output", err))
		}
		return
	}

	for _, variant := range variants {
		fmt.Println(variant)
	}
}

// buildCandidatePool merges explicit --candidates with expanded template
// variants, deduplicating while preserving order.
func buildCandidatePool(query string) []string {
	pool := make([]string, 0, len(candidateList)+8)
	seen := make(map[string]struct{}, len(candidateList)+8)

	add := func(texts []string) {
		for _, text := range texts {
			if _, ok := seen[text]; ok {
				continue
			}
			seen[text] = struct{}{}
			pool = append(pool, text)
		}
	}

	add(candidateList)
	if expandQuery {
		add(expand.Expand(query))
	}
	return pool
}
