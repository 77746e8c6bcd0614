// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diverse

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultAlpha is the default relevance weighting parameter.
const DefaultAlpha = 0.3

// parallelEmbedThreshold is the candidate count above which embedding fans
// out across goroutines. Typical inputs (n <= 10) stay serial.
const parallelEmbedThreshold = 64

// Config configures a Selector.
//
// Start from DefaultConfig() and override fields as needed; NewSelector
// fills zero values for Dim, Alpha, Embedder, and Sink, but Enabled is
// taken as given.
type Config struct {
	// Dim is the embedding dimension. Default: 128.
	Dim int

	// Alpha weights relevance against coverage in [0, 1]. Default: 0.3.
	// A zero value means "unset" and is replaced by the default; to run a
	// call with a literal alpha of 0, pass WithAlpha(0) to Select.
	Alpha float64

	// Enabled toggles the diverse-selection path. When false, Select
	// passes all candidates through unchanged in original order. This is
	// an explicit configuration value, never read from global state.
	Enabled bool

	// Embedder produces feature vectors. Default: NGramEmbedder with Dim.
	// Substitute a trained embedding model here without touching the
	// selection algorithm.
	Embedder Embedder

	// Sink receives advisory selection events. Default: NopSink.
	Sink EventSink
}

// DefaultConfig returns the default selector configuration.
func DefaultConfig() Config {
	return Config{
		Dim:     DefaultDim,
		Alpha:   DefaultAlpha,
		Enabled: true,
	}
}

// Selector orchestrates diverse-candidate selection.
//
// # Description
//
// Selector wires the embedder, the coverage objective, the lazy-greedy
// maximizer, and the complexity estimator into a single entry point. One
// Select call embeds the query and every candidate, scores per-candidate
// relevance, resolves k (explicit value wins, else the complexity
// estimator), picks min(k, n) mutually dissimilar candidates, and reports
// a pairwise diversity score.
//
// # Thread Safety
//
// Safe for concurrent use. Every call allocates its own coverage state and
// priority queue; telemetry emission is a side effect and never influences
// the returned result.
type Selector struct {
	config   Config
	embedder Embedder
	sink     EventSink
}

// NewSelector creates a Selector from cfg, applying defaults for zero
// values (Dim, Alpha, Embedder, Sink).
func NewSelector(cfg Config) *Selector {
	if cfg.Dim <= 0 {
		cfg.Dim = DefaultDim
	}
	if cfg.Alpha == 0 {
		cfg.Alpha = DefaultAlpha
	}
	cfg.Alpha = clamp01(cfg.Alpha)
	if cfg.Embedder == nil {
		cfg.Embedder = NewNGramEmbedder(cfg.Dim)
	}
	if cfg.Sink == nil {
		cfg.Sink = NopSink{}
	}

	return &Selector{
		config:   cfg,
		embedder: cfg.Embedder,
		sink:     cfg.Sink,
	}
}

// Select picks a relevant, mutually dissimilar subset of candidates.
//
// # Description
//
// The single public operation of this package. Degenerate inputs are
// handled by definition rather than by error: an empty candidate list
// yields an empty selection with zero diversity, an explicit k <= 0 yields
// an empty selection, n <= k returns all candidates in original order, and
// zero-norm embeddings have similarity 0 by convention.
//
// # Inputs
//
//   - ctx: Context for cancellation. Must not be nil.
//   - query: The original user request.
//   - candidates: Textual variants of the query. May be empty.
//   - opts: WithK to force a selection size, WithAlpha to override the
//     relevance weighting.
//
// # Outputs
//
//   - *SelectionResult: Query, candidates, selection in commit order, and
//     the diversity score.
//   - error: ErrInvalidInput for a nil context, ErrContextCanceled if ctx
//     expires mid-run. Nothing else fails.
//
// # Example
//
//	selector := diverse.NewSelector(diverse.DefaultConfig())
//	result, err := selector.Select(ctx, "go to site", variants, diverse.WithK(2))
func (s *Selector) Select(ctx context.Context, query string, candidates []string, opts ...SelectOption) (*SelectionResult, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}
	options := applySelectOptions(opts)

	start := time.Now()
	ctx, span := startSelectSpan(ctx, len(candidates))
	defer span.End()

	result := &SelectionResult{
		Query:           query,
		Candidates:      candidates,
		SelectedIndices: []int{},
		Selected:        []Candidate{},
	}

	n := len(candidates)
	if n == 0 {
		s.finish(ctx, span, start, result)
		return result, nil
	}

	if !s.config.Enabled {
		// Optimization path disabled: pass everything through untouched.
		for i, text := range candidates {
			result.SelectedIndices = append(result.SelectedIndices, i)
			result.Selected = append(result.Selected, Candidate{Index: i, Text: text})
		}
		s.finish(ctx, span, start, result)
		return result, nil
	}

	alpha := s.config.Alpha
	if options.alpha != nil {
		alpha = clamp01(*options.alpha)
	}

	queryVec := s.embedder.Embed(query)
	embeddings := s.embedAll(candidates)

	relevance := make([]float64, n)
	for i := range embeddings {
		relevance[i] = CosineSimilarity(queryVec, embeddings[i])
	}

	k := 0
	if options.k != nil {
		k = *options.k
	} else {
		k = EstimateComplexity(query).RecommendedK
	}

	objective := newCoverageObjective(embeddings, relevance, alpha)
	indices, err := lazyGreedySelect(ctx, objective, n, k)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result.SelectedIndices = indices
	for _, i := range indices {
		result.Selected = append(result.Selected, Candidate{
			Index:     i,
			Text:      candidates[i],
			Embedding: embeddings[i],
			Relevance: relevance[i],
		})
	}
	result.DiversityScore = pairwiseDiversity(objective, indices)

	s.finish(ctx, span, start, result)
	return result, nil
}

// Complexity exposes the complexity estimator through the selector, so
// callers holding a Selector need no second entry point.
func (s *Selector) Complexity(query string) ComplexityEstimate {
	return EstimateComplexity(query)
}

// embedAll embeds every candidate. Large inputs fan out across goroutines;
// placement is index-stable so the output is deterministic either way.
func (s *Selector) embedAll(texts []string) [][]float32 {
	vecs := make([][]float32, len(texts))

	if len(texts) < parallelEmbedThreshold {
		for i, text := range texts {
			vecs[i] = s.embedder.Embed(text)
		}
		return vecs
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			vecs[i] = s.embedder.Embed(text)
			return nil
		})
	}
	_ = g.Wait() // embedding cannot fail
	return vecs
}

// finish records telemetry for a completed selection. Side effects only;
// the result is already final.
func (s *Selector) finish(ctx context.Context, span trace.Span, start time.Time, result *SelectionResult) {
	duration := time.Since(start)

	setSelectSpanResult(span, len(result.SelectedIndices), result.DiversityScore)
	recordSelectMetrics(ctx, duration, len(result.Candidates), len(result.SelectedIndices), result.DiversityScore)
	s.sink.Record(ctx, SelectionEvent{
		CandidateCount: len(result.Candidates),
		SelectedCount:  len(result.SelectedIndices),
		DiversityScore: result.DiversityScore,
		Duration:       duration,
	})
}

// pairwiseDiversity is the mean of 1 - cosine over all selected pairs, or 0
// for fewer than two selections.
func pairwiseDiversity(objective *coverageObjective, indices []int) float64 {
	if len(indices) < 2 {
		return 0
	}

	var sum float64
	pairs := 0
	for a := 0; a < len(indices); a++ {
		for b := a + 1; b < len(indices); b++ {
			sum += 1 - objective.similarity(indices[a], indices[b])
			pairs++
		}
	}
	return sum / float64(pairs)
}

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
