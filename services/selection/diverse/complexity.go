// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diverse

import (
	"math"
	"regexp"
	"strings"
)

// Case-insensitive marker patterns for complexity estimation. Compiled once;
// regexp is safe for concurrent use.
var (
	conjunctionPattern = regexp.MustCompile(`(?i)\b(and|then|also|plus)\b`)
	stepPattern        = regexp.MustCompile(`(?i)\b(step|first|second)\b`)
	conditionalPattern = regexp.MustCompile(`(?i)\b(if|when|after)\b`)
	complexVerbPattern = regexp.MustCompile(`(?i)\b(find|extract|analyze|compare|verify|validate|submit|complete)\b`)
)

// Complexity scoring weights and thresholds. Downstream selection quality
// depends on k, so these are fixed, not configurable.
const (
	conjunctionWeight = 0.15
	stepWeight        = 0.2
	conditionalWeight = 0.15
	complexVerbWeight = 0.1
	wordCountDivisor  = 30.0
	wordCountCap      = 0.4

	lowComplexityThreshold  = 0.3
	highComplexityThreshold = 0.6

	lowK    = 3
	mediumK = 5
	highK   = 7
)

// EstimateComplexity scores how structurally complex a query is and
// recommends how many diverse variants to explore for it.
//
// # Description
//
// Pure heuristic over surface features of the raw query: conjunction
// markers (and/then/also/plus and commas), step markers, conditionals,
// "complex verb" markers, and word count. The score is clamped to [0, 1]
// and mapped to a recommended selection size of 3, 5, or 7.
//
// # Inputs
//
//   - query: The raw query string. May be empty.
//
// # Outputs
//
//   - ComplexityEstimate: Score in [0, 1] and RecommendedK in {3, 5, 7}.
func EstimateComplexity(query string) ComplexityEstimate {
	conjunctions := len(conjunctionPattern.FindAllStringIndex(query, -1)) +
		strings.Count(query, ",")
	complexVerbs := len(complexVerbPattern.FindAllStringIndex(query, -1))
	wordCount := len(strings.Fields(query))

	var stepScore, conditionalScore float64
	if stepPattern.MatchString(query) {
		stepScore = stepWeight
	}
	if conditionalPattern.MatchString(query) {
		conditionalScore = conditionalWeight
	}

	score := math.Min(1,
		conjunctionWeight*float64(conjunctions)+
			stepScore+
			conditionalScore+
			complexVerbWeight*float64(complexVerbs)+
			math.Min(float64(wordCount)/wordCountDivisor, wordCountCap))

	k := lowK
	switch {
	case score >= highComplexityThreshold:
		k = highK
	case score >= lowComplexityThreshold:
		k = mediumK
	}

	return ComplexityEstimate{
		Score:        score,
		RecommendedK: k,
	}
}
