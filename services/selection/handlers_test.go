// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package selection

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpulentiaAI/titan/services/selection/diverse"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter builds a router with the selection routes and no metrics.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	selector := diverse.NewSelector(diverse.DefaultConfig())
	handlers := NewHandlers(selector, nil)

	router := gin.New()
	v1 := router.Group("/v1")
	RegisterRoutes(v1, handlers)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

// =============================================================================
// HandleSelect Tests
// =============================================================================

func TestHandleSelect_ReturnsSelection(t *testing.T) {
	router := newTestRouter(t)
	k := 2

	w := postJSON(t, router, "/v1/selection/select", SelectRequest{
		Query: "go to site",
		Candidates: []string{
			"go to site",
			"Step by step: go to site",
			"go to site. If errors occur, try alternative approaches.",
			"go to site. Verify each step before proceeding.",
		},
		K: &k,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp SelectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "go to site", resp.Query)
	require.Len(t, resp.SelectedIndices, 2)
	require.Len(t, resp.Selected, 2)
	assert.Greater(t, resp.DiversityScore, 0.0)
	for _, cand := range resp.Selected {
		assert.Contains(t, resp.Candidates, cand.Text)
	}
}

func TestHandleSelect_MissingQuery(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/v1/selection/select", gin.H{
		"candidates": []string{"a", "b"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
	assert.Contains(t, resp.Error, "query")
}

func TestHandleSelect_AlphaOutOfRange(t *testing.T) {
	router := newTestRouter(t)
	alpha := 1.5

	w := postJSON(t, router, "/v1/selection/select", SelectRequest{
		Query:      "go to site",
		Candidates: []string{"a", "b"},
		Alpha:      &alpha,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSelect_EmptyCandidates(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/v1/selection/select", SelectRequest{
		Query: "go to site",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp SelectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.SelectedIndices)
	assert.Zero(t, resp.DiversityScore)
}

func TestHandleSelect_ExpandGeneratesCandidates(t *testing.T) {
	router := newTestRouter(t)
	k := 2

	w := postJSON(t, router, "/v1/selection/select", SelectRequest{
		Query:  "go to site",
		Expand: true,
		K:      &k,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp SelectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.GreaterOrEqual(t, len(resp.Candidates), 4)
	assert.Len(t, resp.SelectedIndices, 2)
	assert.Contains(t, resp.Candidates, "Step by step: go to site")
}

func TestHandleSelect_SetsRequestID(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/v1/selection/select", SelectRequest{
		Query:      "go to site",
		Candidates: []string{"a"},
	})

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHandleSelect_PreservesRequestID(t *testing.T) {
	router := newTestRouter(t)

	payload, err := json.Marshal(SelectRequest{Query: "go to site"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/selection/select", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "test-request-42")
	router.ServeHTTP(w, req)

	assert.Equal(t, "test-request-42", w.Header().Get("X-Request-ID"))
}

// =============================================================================
// HandleComplexity Tests
// =============================================================================

func TestHandleComplexity_SimpleQuery(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/v1/selection/complexity", ComplexityRequest{
		Query: "go to a page",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp ComplexityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Less(t, resp.Score, 0.3)
	assert.Equal(t, 3, resp.RecommendedK)
}

func TestHandleComplexity_ComplexQuery(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/v1/selection/complexity", ComplexityRequest{
		Query: "find the product, extract the price, and then compare it with three other sites, verifying each value",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp ComplexityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.GreaterOrEqual(t, resp.Score, 0.6)
	assert.Equal(t, 7, resp.RecommendedK)
}

func TestHandleComplexity_MissingQuery(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/v1/selection/complexity", gin.H{})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// HandleExpand Tests
// =============================================================================

func TestHandleExpand_ReturnsVariants(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/v1/selection/expand", ExpandRequest{
		Query: "go to site",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp ExpandResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "go to site", resp.Query)
	require.GreaterOrEqual(t, len(resp.Variants), 4)
	assert.Equal(t, "go to site", resp.Variants[0])
}

func TestHandleExpand_MissingQuery(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/v1/selection/expand", gin.H{})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// HandleHealth Tests
// =============================================================================

func TestHandleHealth_ReturnsOK(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/selection/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "titan-selection", resp.Service)
}
