// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diverse

import (
	"math"
	"strings"
)

// DefaultDim is the default embedding dimension.
const DefaultDim = 128

// maxNGram is the largest character n-gram length hashed by NGramEmbedder.
const maxNGram = 3

// Embedder turns a string into a fixed-length feature vector.
//
// # Description
//
// Embedder is the capability interface behind the selection algorithm. The
// built-in NGramEmbedder is a cheap, deterministic, model-free stand-in for
// a semantic embedding; a production system can substitute a trained model
// without touching the selection algorithm.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type Embedder interface {
	// Embed returns the feature vector for text. The vector length must
	// equal Dim() for every input.
	Embed(text string) []float32

	// Dim returns the fixed embedding dimension.
	Dim() int
}

// NGramEmbedder hashes character n-grams (lengths 1-3) into a fixed-length
// L2-normalized vector.
//
// # Description
//
// The input is lowercased and trimmed, then every contiguous character
// substring of length 1, 2, and 3 is mapped to a bucket by summing its
// character codes modulo the dimension, accumulating occurrence counts.
// The result is L2-normalized; the all-zero vector is left unnormalized.
//
// Same input always yields the same output: no randomness, no model,
// O(length) time.
type NGramEmbedder struct {
	dim int
}

// NewNGramEmbedder creates an embedder with the given dimension.
// Dimensions <= 0 fall back to DefaultDim.
func NewNGramEmbedder(dim int) *NGramEmbedder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &NGramEmbedder{dim: dim}
}

// Dim returns the fixed embedding dimension.
func (e *NGramEmbedder) Dim() int {
	return e.dim
}

// Embed returns the hashed n-gram vector for text.
func (e *NGramEmbedder) Embed(text string) []float32 {
	vec := make([]float32, e.dim)

	runes := []rune(strings.TrimSpace(strings.ToLower(text)))
	for n := 1; n <= maxNGram; n++ {
		for i := 0; i+n <= len(runes); i++ {
			sum := 0
			for _, r := range runes[i : i+n] {
				sum += int(r)
			}
			vec[sum%e.dim]++
		}
	}

	return l2Normalize(vec)
}

// l2Normalize divides every component by the vector's Euclidean norm.
// The all-zero vector is returned unchanged.
func l2Normalize(vec []float32) []float32 {
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq == 0 {
		return vec
	}

	norm := float32(math.Sqrt(sumSq))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// Compile-time interface compliance.
var _ Embedder = (*NGramEmbedder)(nil)
