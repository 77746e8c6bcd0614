// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diverse

import (
	"container/heap"
	"context"
)

// queueEntry is one lazy-greedy priority queue element. Entries are
// ephemeral; they live only inside the queue for a single selection run.
type queueEntry struct {
	// negGain is the negated cached marginal gain, so the min-heap surfaces
	// the largest true gain first.
	negGain float64

	// tag is the iteration the gain was computed at. An entry with
	// tag < current iteration may be stale, but submodularity guarantees
	// the cached value is still an upper bound on the true gain.
	tag int

	// index is the candidate index.
	index int
}

// gainQueue is a binary min-heap of queueEntry values.
//
// The comparator is explicit rather than relying on tuple ordering: smaller
// negGain first (largest gain), then older tag, then lower candidate index.
// The index tie-break keeps selection deterministic and makes the lazy
// algorithm agree with an eager greedy scan that prefers lower indices on
// equal gains.
type gainQueue []queueEntry

func (q gainQueue) Len() int { return len(q) }

func (q gainQueue) Less(a, b int) bool {
	if q[a].negGain != q[b].negGain {
		return q[a].negGain < q[b].negGain
	}
	if q[a].tag != q[b].tag {
		return q[a].tag < q[b].tag
	}
	return q[a].index < q[b].index
}

func (q gainQueue) Swap(a, b int) { q[a], q[b] = q[b], q[a] }

func (q *gainQueue) Push(x any) {
	*q = append(*q, x.(queueEntry))
}

func (q *gainQueue) Pop() any {
	old := *q
	n := len(old)
	entry := old[n-1]
	*q = old[:n-1]
	return entry
}

// lazyGreedySelect picks up to k candidate indices maximizing the coverage
// objective, in commit order.
//
// # Description
//
// Implements lazy-evaluation greedy maximization. Every candidate's initial
// gain is pushed once; on each iteration entries are popped until one whose
// cached gain is fresh for the current iteration surfaces. Stale entries are
// recomputed against the up-to-date coverage state and re-pushed. Because
// marginal gains are non-increasing as the selected set grows, a cached gain
// is always an upper bound on the true current gain, so deferring
// recomputation is safe and the selection matches an eager greedy algorithm
// that rescans every candidate each round.
//
// # Edge Cases
//
//   - k <= 0 or n == 0: empty selection.
//   - n <= k: all candidates in original order, no computation.
//   - Queue exhausted early: fewer than k selections.
//
// # Outputs
//
//   - []int: Selected indices in commit order.
//   - error: ErrContextCanceled if ctx expires mid-run.
func lazyGreedySelect(ctx context.Context, obj *coverageObjective, n, k int) ([]int, error) {
	if k <= 0 || n == 0 {
		return []int{}, nil
	}
	if n <= k {
		selected := make([]int, n)
		for i := range selected {
			selected[i] = i
		}
		return selected, nil
	}

	queue := make(gainQueue, 0, n)
	for i := 0; i < n; i++ {
		queue = append(queue, queueEntry{negGain: -obj.gain(i), tag: 0, index: i})
	}
	heap.Init(&queue)

	selected := make([]int, 0, k)
	for t := 0; t < k && queue.Len() > 0; {
		if err := ctx.Err(); err != nil {
			return nil, ErrContextCanceled
		}

		entry := heap.Pop(&queue).(queueEntry)
		if entry.tag == t {
			// Fresh for this round: commit.
			obj.commit(entry.index)
			selected = append(selected, entry.index)
			t++
			continue
		}

		// Stale upper bound: recompute against current coverage and requeue.
		heap.Push(&queue, queueEntry{
			negGain: -obj.gain(entry.index),
			tag:     t,
			index:   entry.index,
		})
	}

	return selected, nil
}
