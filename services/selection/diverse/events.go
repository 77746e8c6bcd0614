// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diverse

import (
	"context"
	"sync"
	"time"
)

// SelectionEvent is the advisory record emitted after each Select call.
//
// Events are purely observational: sinks are never consulted for control
// flow and sink behavior must not influence the returned result.
type SelectionEvent struct {
	// CandidateCount is the number of input candidates.
	CandidateCount int `json:"candidate_count"`

	// SelectedCount is the number of selected candidates.
	SelectedCount int `json:"selected_count"`

	// DiversityScore is the mean pairwise dissimilarity of the selection.
	DiversityScore float64 `json:"diversity_score"`

	// Duration is the wall-clock time the selection took.
	Duration time.Duration `json:"duration"`
}

// EventSink receives selection events for observability.
//
// Implementations should return quickly; Record is called synchronously on
// the selection path. Failures must be swallowed, never propagated.
type EventSink interface {
	// Record consumes one selection event.
	Record(ctx context.Context, event SelectionEvent)
}

// NopSink discards all events. Used when no sink is configured.
type NopSink struct{}

// Record discards the event.
func (NopSink) Record(ctx context.Context, event SelectionEvent) {}

// BufferedSink collects events in memory.
//
// Useful in tests to verify what a selection run reported:
//
//	sink := diverse.NewBufferedSink()
//	selector := diverse.NewSelector(diverse.Config{Sink: sink})
//	_, _ = selector.Select(ctx, query, candidates)
//	events := sink.Events()
type BufferedSink struct {
	mu     sync.Mutex
	events []SelectionEvent
}

// NewBufferedSink creates an empty BufferedSink.
func NewBufferedSink() *BufferedSink {
	return &BufferedSink{}
}

// Record appends the event to the buffer.
func (s *BufferedSink) Record(ctx context.Context, event SelectionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// Events returns a copy of all collected events.
func (s *BufferedSink) Events() []SelectionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SelectionEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Compile-time interface compliance.
var (
	_ EventSink = NopSink{}
	_ EventSink = (*BufferedSink)(nil)
)
