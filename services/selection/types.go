// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package selection

// SelectRequest is the request body for POST /v1/selection/select.
type SelectRequest struct {
	// Query is the original user request. Required.
	Query string `json:"query" binding:"required"`

	// Candidates are the textual variants to select among. When empty and
	// Expand is true, candidates are generated from the query first.
	Candidates []string `json:"candidates"`

	// K forces the selection size. When omitted, the complexity estimator
	// decides. Explicit 0 yields an empty selection.
	K *int `json:"k"`

	// Alpha overrides the relevance weighting for this request.
	Alpha *float64 `json:"alpha" binding:"omitempty,gte=0,lte=1"`

	// Expand generates template variants of the query and appends them to
	// Candidates before selection.
	Expand bool `json:"expand"`
}

// SelectedCandidate is one selected item in a SelectResponse.
type SelectedCandidate struct {
	// Index is the candidate's position in the request's candidate list.
	Index int `json:"index"`

	// Text is the candidate string.
	Text string `json:"text"`

	// Relevance is the cosine similarity to the query, in [-1, 1].
	Relevance float64 `json:"relevance"`
}

// SelectResponse is the response body for POST /v1/selection/select.
type SelectResponse struct {
	Query           string              `json:"query"`
	Candidates      []string            `json:"candidates"`
	SelectedIndices []int               `json:"selected_indices"`
	Selected        []SelectedCandidate `json:"selected"`
	DiversityScore  float64             `json:"diversity_score"`
}

// ComplexityRequest is the request body for POST /v1/selection/complexity.
type ComplexityRequest struct {
	// Query is the text to score. Required.
	Query string `json:"query" binding:"required"`
}

// ComplexityResponse is the response body for POST /v1/selection/complexity.
type ComplexityResponse struct {
	Query        string  `json:"query"`
	Score        float64 `json:"score"`
	RecommendedK int     `json:"recommended_k"`
}

// ExpandRequest is the request body for POST /v1/selection/expand.
type ExpandRequest struct {
	// Query is the text to expand into variants. Required.
	Query string `json:"query" binding:"required"`
}

// ExpandResponse is the response body for POST /v1/selection/expand.
type ExpandResponse struct {
	Query    string   `json:"query"`
	Variants []string `json:"variants"`
}

// HealthResponse is the response body for GET /v1/selection/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ErrorResponse is the standard error envelope for all endpoints.
type ErrorResponse struct {
	// Error is a human-readable message.
	Error string `json:"error"`

	// Code is a stable machine-readable error code.
	Code string `json:"code"`
}
