// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package diverse implements diverse-candidate selection over textual query
// variants.
//
// Given a short list of variants derived from a single user request, the
// package picks a small subset that is simultaneously relevant to the
// original request and mutually dissimilar, so that downstream exploration
// covers more of the task space per unit of exploration budget. Selection
// maximizes a facility-location-style submodular objective with a
// lazy-evaluation greedy algorithm.
//
// The package is pure: no I/O, no randomness, no persisted state. Two calls
// with identical inputs produce identical outputs.
//
// Thread Safety:
//
//	A Selector is safe for concurrent use. Every Select call allocates its
//	own working state; nothing is shared across calls.
package diverse

// Candidate is one query variant considered for selection.
//
// Candidates are created once per Select call from the input strings and are
// immutable for the duration of the call.
type Candidate struct {
	// Index is the candidate's position in the original input list.
	Index int `json:"index"`

	// Text is the candidate string.
	Text string `json:"text"`

	// Embedding is the fixed-length feature vector for Text.
	Embedding []float32 `json:"-"`

	// Relevance is the cosine similarity between this candidate and the
	// original query. Computed once; never changes during selection.
	Relevance float64 `json:"relevance"`
}

// SelectionResult is the outcome of one diverse-selection run.
type SelectionResult struct {
	// Query is the original query the candidates were derived from.
	Query string `json:"query"`

	// Candidates is the full input candidate list.
	Candidates []string `json:"candidates"`

	// SelectedIndices are the chosen candidate indices, in commit order
	// (the order the greedy algorithm picked them, not input order).
	SelectedIndices []int `json:"selected_indices"`

	// Selected carries the chosen candidates with their relevance scores,
	// in the same order as SelectedIndices.
	Selected []Candidate `json:"selected"`

	// DiversityScore is the mean pairwise dissimilarity (1 - cosine) over
	// the selected subset, or 0 if fewer than two items were selected.
	DiversityScore float64 `json:"diversity_score"`
}

// ComplexityEstimate is the result of heuristic query complexity estimation.
type ComplexityEstimate struct {
	// Score is the complexity score in [0, 1].
	Score float64 `json:"complexity_score"`

	// RecommendedK is the suggested selection size: 3, 5, or 7.
	RecommendedK int `json:"recommended_k"`
}

// selectOptions holds per-call overrides for Select.
type selectOptions struct {
	// k is the explicit selection size. Nil means "resolve via the
	// complexity estimator". Explicit non-positive values produce an
	// empty selection.
	k *int

	// alpha is the relevance weighting override. Nil uses the
	// selector-level alpha.
	alpha *float64
}

// SelectOption is a functional option for a single Select call.
type SelectOption func(*selectOptions)

// WithK sets an explicit selection size, overriding the complexity
// estimator. Values <= 0 yield an empty selection.
func WithK(k int) SelectOption {
	return func(o *selectOptions) {
		o.k = &k
	}
}

// WithAlpha overrides the relevance weighting parameter for one call.
// Alpha is clamped to [0, 1].
func WithAlpha(alpha float64) SelectOption {
	return func(o *selectOptions) {
		o.alpha = &alpha
	}
}

// applySelectOptions applies functional options over the defaults.
func applySelectOptions(opts []SelectOption) selectOptions {
	var options selectOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
