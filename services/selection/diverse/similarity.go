// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diverse

import "math"

// CosineSimilarity computes the cosine similarity between two vectors.
//
// # Description
//
// Returns dot(a, b) / (|a| * |b|). Norms are always recomputed; callers
// must not rely on inputs being pre-normalized even though NGramEmbedder
// normalizes its output. Returns 0 for mismatched lengths, empty vectors,
// or whenever either norm is zero, so degenerate inputs never produce NaN.
//
// # Outputs
//
//   - float64: Similarity in [-1, 1], or 0 for degenerate inputs.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
