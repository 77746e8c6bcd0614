// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diverse

import (
	"math"
	"testing"
)

func TestEstimateComplexity(t *testing.T) {
	tests := []struct {
		name  string
		query string
		wantK int
	}{
		{
			name:  "trivial query",
			query: "go to a page",
			wantK: 3,
		},
		{
			name:  "empty query",
			query: "",
			wantK: 3,
		},
		{
			name:  "moderate query",
			query: "find the product page and check the price",
			wantK: 5,
		},
		{
			name: "heavy multi-step query",
			query: "First, log into the admin portal, then find the quarterly sales report, " +
				"extract the revenue figures, compare them against last year, and if the numbers " +
				"look wrong, verify the source data before you submit the summary.",
			wantK: 7,
		},
		{
			name:  "conditional query",
			query: "when the page loads, click the banner",
			wantK: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := EstimateComplexity(tt.query)
			if est.RecommendedK != tt.wantK {
				t.Fatalf("RecommendedK = %d, want %d (score %v)", est.RecommendedK, tt.wantK, est.Score)
			}
			if est.Score < 0 || est.Score > 1 {
				t.Fatalf("score %v out of [0, 1]", est.Score)
			}
		})
	}
}

func TestEstimateComplexityScoreCapped(t *testing.T) {
	query := "find and extract and analyze and compare and verify and validate and submit " +
		"and complete, then, if, when, after, first, second, step, step, step, also, plus"

	est := EstimateComplexity(query)
	if est.Score != 1 {
		t.Fatalf("expected score capped at 1, got %v", est.Score)
	}
	if est.RecommendedK != 7 {
		t.Fatalf("expected k=7 at maximum score, got %d", est.RecommendedK)
	}
}

func TestEstimateComplexityWordBoundaries(t *testing.T) {
	// Substrings inside larger words must not match.
	est := EstimateComplexity("brandish the handle on the conditioner")
	if est.Score >= lowComplexityThreshold {
		t.Fatalf("substring matches inflated the score: %v", est.Score)
	}
	if est.RecommendedK != 3 {
		t.Fatalf("RecommendedK = %d, want 3", est.RecommendedK)
	}
}

func TestEstimateComplexityCaseInsensitive(t *testing.T) {
	lower := EstimateComplexity("find the report and then verify it")
	upper := EstimateComplexity("FIND THE REPORT AND THEN VERIFY IT")

	if math.Abs(lower.Score-upper.Score) > 1e-9 {
		t.Fatalf("case changed the score: %v vs %v", lower.Score, upper.Score)
	}
	if lower.RecommendedK != upper.RecommendedK {
		t.Fatalf("case changed k: %d vs %d", lower.RecommendedK, upper.RecommendedK)
	}
}
