// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diverse

// coverageObjective is the facility-location-style submodular utility driving
// selection.
//
// For a selected set S, each candidate j is covered by
//
//	coverage_j(S) = max(alpha * relevance[j], max_{s in S} cosine(s, j))
//
// and the total utility is the sum of per-candidate coverage. The function is
// monotone and submodular: marginal gains never increase as S grows, which is
// what licenses both the 1-1/e greedy guarantee and the lazy-evaluation queue
// in the selector.
//
// The first pick is intentionally asymmetric: gain(i | empty set) is the
// would-be total utility of {i}, not U({i}) - U(empty). This matches the
// reference behavior and decides which candidate is always picked first, so
// it must not be "corrected".
//
// coverageObjective is owned by a single selection run and is not safe for
// concurrent use.
type coverageObjective struct {
	// sims[i][j] is the cosine similarity between candidates i and j.
	sims [][]float64

	// covered[j] is the current best coverage candidate j enjoys, starting
	// at the relevance floor alpha * relevance[j].
	covered []float64

	// total is the sum of covered, maintained after each commit.
	total float64

	// selectedCount is the number of committed picks.
	selectedCount int
}

// newCoverageObjective precomputes the pairwise similarity matrix and the
// relevance floor for one selection run.
func newCoverageObjective(embeddings [][]float32, relevance []float64, alpha float64) *coverageObjective {
	n := len(embeddings)

	sims := make([][]float64, n)
	for i := range sims {
		sims[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		sims[i][i] = CosineSimilarity(embeddings[i], embeddings[i])
		for j := i + 1; j < n; j++ {
			s := CosineSimilarity(embeddings[i], embeddings[j])
			sims[i][j] = s
			sims[j][i] = s
		}
	}

	covered := make([]float64, n)
	for j := 0; j < n; j++ {
		covered[j] = alpha * relevance[j]
	}

	return &coverageObjective{
		sims:    sims,
		covered: covered,
	}
}

// gain returns the marginal gain of adding candidate i to the current
// selected set.
//
// For the empty set this is the would-be total utility (see the type comment
// for why there is no U(empty) subtraction). For non-empty sets it is the
// utility delta against the maintained total.
func (c *coverageObjective) gain(i int) float64 {
	var sum float64
	for j, cov := range c.covered {
		if s := c.sims[i][j]; s > cov {
			sum += s
		} else {
			sum += cov
		}
	}

	if c.selectedCount == 0 {
		return sum
	}
	return sum - c.total
}

// commit adds candidate i to the selected set, raising per-candidate
// coverage in place. Coverage is monotone non-decreasing across commits.
func (c *coverageObjective) commit(i int) {
	var total float64
	for j := range c.covered {
		if s := c.sims[i][j]; s > c.covered[j] {
			c.covered[j] = s
		}
		total += c.covered[j]
	}
	c.total = total
	c.selectedCount++
}

// similarity returns the precomputed cosine similarity between candidates
// i and j.
func (c *coverageObjective) similarity(i, j int) float64 {
	return c.sims[i][j]
}
