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

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float32{1, 2, 3},
			b:    []float32{1, 2, 3},
			want: 1.0,
		},
		{
			name: "orthogonal vectors",
			a:    []float32{1, 0},
			b:    []float32{0, 1},
			want: 0.0,
		},
		{
			name: "opposite vectors",
			a:    []float32{1, 1},
			b:    []float32{-1, -1},
			want: -1.0,
		},
		{
			name: "zero vector left",
			a:    []float32{0, 0, 0},
			b:    []float32{1, 2, 3},
			want: 0.0,
		},
		{
			name: "zero vector right",
			a:    []float32{1, 2, 3},
			b:    []float32{0, 0, 0},
			want: 0.0,
		},
		{
			name: "mismatched lengths",
			a:    []float32{1, 2},
			b:    []float32{1, 2, 3},
			want: 0.0,
		},
		{
			name: "empty vectors",
			a:    []float32{},
			b:    []float32{},
			want: 0.0,
		},
		{
			name: "unnormalized inputs",
			a:    []float32{3, 0},
			b:    []float32{7, 0},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
			if math.IsNaN(got) {
				t.Fatal("CosineSimilarity() returned NaN")
			}
		})
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	embedder := NewNGramEmbedder(DefaultDim)
	a := embedder.Embed("check the order status")
	b := embedder.Embed("verify the shipment status")

	if got, rev := CosineSimilarity(a, b), CosineSimilarity(b, a); got != rev {
		t.Fatalf("expected symmetric similarity, got %v and %v", got, rev)
	}
}
