// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package selection

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/OpulentiaAI/titan/services/selection/diverse"
	"github.com/OpulentiaAI/titan/services/selection/expand"
	"github.com/OpulentiaAI/titan/services/selection/observability"
)

// Handlers holds HTTP handlers for the selection service.
//
// Thread Safety:
//
//	Handlers is safe for concurrent use. The underlying selector allocates
//	per-call state; handlers hold no mutable state of their own.
type Handlers struct {
	selector *diverse.Selector
	metrics  *observability.SelectionMetrics
}

// NewHandlers creates handlers backed by the given selector.
//
// metrics may be nil when Prometheus metrics are disabled; recording
// methods are nil-safe.
func NewHandlers(selector *diverse.Selector, metrics *observability.SelectionMetrics) *Handlers {
	return &Handlers{
		selector: selector,
		metrics:  metrics,
	}
}

// HandleSelect handles POST /v1/selection/select.
//
// Description:
//
//	Picks a relevant, mutually dissimilar subset of the request's
//	candidates. With expand=true the query is first expanded into template
//	variants, which are appended to any provided candidates.
//
// Request Body:
//
//	SelectRequest
//
// Response:
//
//	200 OK: SelectResponse
//	400 Bad Request: Validation error
//	499 Client Closed Request: Context canceled mid-selection
func (h *Handlers) HandleSelect(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSelect")
	start := time.Now()

	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		h.metrics.RecordError(observability.EndpointSelect, observability.ErrorCodeValidation)
		h.metrics.RecordRequest(observability.EndpointSelect, false, time.Since(start).Seconds())
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: validationMessage(err),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	candidates := req.Candidates
	if req.Expand {
		candidates = append(candidates, expand.Expand(req.Query)...)
	}

	var opts []diverse.SelectOption
	if req.K != nil {
		opts = append(opts, diverse.WithK(*req.K))
	}
	if req.Alpha != nil {
		opts = append(opts, diverse.WithAlpha(*req.Alpha))
	}

	result, err := h.selector.Select(c.Request.Context(), req.Query, candidates, opts...)
	if err != nil {
		if errors.Is(err, diverse.ErrContextCanceled) {
			logger.Warn("Selection canceled", "error", err)
			h.metrics.RecordError(observability.EndpointSelect, observability.ErrorCodeCanceled)
			h.metrics.RecordRequest(observability.EndpointSelect, false, time.Since(start).Seconds())
			c.JSON(499, ErrorResponse{
				Error: "Request canceled",
				Code:  "CANCELED",
			})
			return
		}
		logger.Error("Selection failed", "error", err)
		h.metrics.RecordError(observability.EndpointSelect, observability.ErrorCodeInternal)
		h.metrics.RecordRequest(observability.EndpointSelect, false, time.Since(start).Seconds())
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "SELECT_FAILED",
		})
		return
	}

	selected := make([]SelectedCandidate, 0, len(result.Selected))
	for _, cand := range result.Selected {
		selected = append(selected, SelectedCandidate{
			Index:     cand.Index,
			Text:      cand.Text,
			Relevance: cand.Relevance,
		})
	}

	logger.Info("Selection complete",
		"candidates", len(result.Candidates),
		"selected", len(result.SelectedIndices),
		"diversity_score", result.DiversityScore)

	h.metrics.RecordSelection(len(result.Candidates), len(result.SelectedIndices), result.DiversityScore)
	h.metrics.RecordRequest(observability.EndpointSelect, true, time.Since(start).Seconds())

	c.JSON(http.StatusOK, SelectResponse{
		Query:           result.Query,
		Candidates:      result.Candidates,
		SelectedIndices: result.SelectedIndices,
		Selected:        selected,
		DiversityScore:  result.DiversityScore,
	})
}

// HandleComplexity handles POST /v1/selection/complexity.
//
// Description:
//
//	Scores the structural complexity of a query and recommends how many
//	variants to explore for it.
//
// Request Body:
//
//	ComplexityRequest
//
// Response:
//
//	200 OK: ComplexityResponse
//	400 Bad Request: Validation error
func (h *Handlers) HandleComplexity(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleComplexity")
	start := time.Now()

	var req ComplexityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		h.metrics.RecordError(observability.EndpointComplexity, observability.ErrorCodeValidation)
		h.metrics.RecordRequest(observability.EndpointComplexity, false, time.Since(start).Seconds())
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: validationMessage(err),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	est := h.selector.Complexity(req.Query)

	logger.Info("Complexity estimated", "score", est.Score, "recommended_k", est.RecommendedK)
	h.metrics.RecordRequest(observability.EndpointComplexity, true, time.Since(start).Seconds())

	c.JSON(http.StatusOK, ComplexityResponse{
		Query:        req.Query,
		Score:        est.Score,
		RecommendedK: est.RecommendedK,
	})
}

// HandleExpand handles POST /v1/selection/expand.
//
// Description:
//
//	Expands a query into template variants without running selection.
//
// Request Body:
//
//	ExpandRequest
//
// Response:
//
//	200 OK: ExpandResponse
//	400 Bad Request: Validation error
func (h *Handlers) HandleExpand(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleExpand")
	start := time.Now()

	var req ExpandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		h.metrics.RecordError(observability.EndpointExpand, observability.ErrorCodeValidation)
		h.metrics.RecordRequest(observability.EndpointExpand, false, time.Since(start).Seconds())
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: validationMessage(err),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	variants := expand.Expand(req.Query)

	logger.Info("Query expanded", "variants", len(variants))
	h.metrics.RecordRequest(observability.EndpointExpand, true, time.Since(start).Seconds())

	c.JSON(http.StatusOK, ExpandResponse{
		Query:    req.Query,
		Variants: variants,
	})
}

// HandleHealth handles GET /v1/selection/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "titan-selection",
	})
}

// getOrCreateRequestID gets or creates a request ID.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

// validationMessage turns binding errors into a readable message, listing
// the failing fields when the error came from the validator.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "gte", "lte":
			parts = append(parts, fmt.Sprintf("%s must be between 0 and 1", strings.ToLower(fe.Field())))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field())))
		}
	}
	return strings.Join(parts, "; ")
}
