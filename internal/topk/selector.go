// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package topk

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrInvalidCapacity is returned when a selector is constructed with a negative capacity.
var ErrInvalidCapacity = errors.New("topk: invalid capacity")

// maxPrealloc bounds the initial heap allocation for very large capacities.
const maxPrealloc = 1024

// Record is a scored record. Identity and Label are carried through unchanged.
type Record[S cmp.Ordered, ID any, L any] struct {
	Score    S
	Identity ID
	Label    L
}

// Stats counts what a selector did with the records offered to it.
// Offered == Admitted + Rejected; Evicted counts admissions that displaced the root.
type Stats struct {
	Offered  uint64
	Admitted uint64
	Evicted  uint64
	Rejected uint64
}

// entry pairs a held record with its admission sequence number.
type entry[S cmp.Ordered, ID any, L any] struct {
	rec Record[S, ID, L]
	seq uint64
}

// Selector keeps the capacity highest-scored records offered to it.
type Selector[S cmp.Ordered, ID any, L any] struct {
	held     []entry[S, ID, L]
	capacity int
	nextSeq  uint64
	stats    Stats
}

// New creates a selector holding at most capacity records.
// A capacity of zero is valid and rejects every record.
func New[S cmp.Ordered, ID any, L any](capacity int) (*Selector[S, ID, L], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Selector[S, ID, L]{
		held:     make([]entry[S, ID, L], 0, min(capacity, maxPrealloc)),
		capacity: capacity,
	}, nil
}

// Offer presents a record to the selector and reports whether it was admitted.
func (s *Selector[S, ID, L]) Offer(r Record[S, ID, L]) bool {
	s.stats.Offered++

	if len(s.held) < s.capacity {
		s.held = append(s.held, s.newEntry(r))
		s.siftUp(len(s.held) - 1)
		s.stats.Admitted++
		return true
	}

	if s.capacity == 0 || !cmp.Less(s.held[0].rec.Score, r.Score) {
		s.stats.Rejected++
		return false
	}

	s.held[0] = s.newEntry(r)
	s.siftDown(0)
	s.stats.Admitted++
	s.stats.Evicted++
	return true
}

// Drain returns the held records ordered from highest to lowest score.
// Equal scores are ordered by admission, earliest first. The selector is left
// unchanged, so Drain may be called repeatedly and offers may continue after it.
func (s *Selector[S, ID, L]) Drain() []Record[S, ID, L] {
	sorted := slices.Clone(s.held)
	slices.SortFunc(sorted, func(a, b entry[S, ID, L]) int {
		if c := cmp.Compare(b.rec.Score, a.rec.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	out := make([]Record[S, ID, L], len(sorted))
	for i, e := range sorted {
		out[i] = e.rec
	}
	return out
}

// Len returns the number of records currently held.
func (s *Selector[S, ID, L]) Len() int { return len(s.held) }

// Cap returns the selector's fixed capacity.
func (s *Selector[S, ID, L]) Cap() int { return s.capacity }

// Min returns the lowest-scored held record, the one the next admission must beat
// once the selector is full.
func (s *Selector[S, ID, L]) Min() (Record[S, ID, L], bool) {
	if len(s.held) == 0 {
		var zero Record[S, ID, L]
		return zero, false
	}
	return s.held[0].rec, true
}

// Stats returns the admission counters accumulated so far.
func (s *Selector[S, ID, L]) Stats() Stats { return s.stats }

func (s *Selector[S, ID, L]) newEntry(r Record[S, ID, L]) entry[S, ID, L] {
	e := entry[S, ID, L]{rec: r, seq: s.nextSeq}
	s.nextSeq++
	return e
}

// siftUp moves the element at i toward the root while its parent scores strictly higher.
func (s *Selector[S, ID, L]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !cmp.Less(s.held[i].rec.Score, s.held[parent].rec.Score) {
			break
		}
		s.held[i], s.held[parent] = s.held[parent], s.held[i]
		i = parent
	}
}

// siftDown moves the element at i toward the leaves while a child scores strictly lower.
func (s *Selector[S, ID, L]) siftDown(i int) {
	n := len(s.held)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && cmp.Less(s.held[left].rec.Score, s.held[smallest].rec.Score) {
			smallest = left
		}
		if right < n && cmp.Less(s.held[right].rec.Score, s.held[smallest].rec.Score) {
			smallest = right
		}
		if smallest == i {
			return
		}
		s.held[i], s.held[smallest] = s.held[smallest], s.held[i]
		i = smallest
	}
}

// SelectTopK returns the k highest-scored records in descending score order.
// It returns ErrInvalidCapacity when k is negative.
func SelectTopK[S cmp.Ordered, ID any, L any](records []Record[S, ID, L], k int) ([]Record[S, ID, L], error) {
	return SelectTopKSeq(slices.Values(records), k)
}

// SelectTopKSeq is SelectTopK over an iterator. The input is consumed once and
// never buffered; memory use is bounded by k.
func SelectTopKSeq[S cmp.Ordered, ID any, L any](records iter.Seq[Record[S, ID, L]], k int) ([]Record[S, ID, L], error) {
	sel, err := New[S, ID, L](k)
	if err != nil {
		return nil, err
	}
	for r := range records {
		sel.Offer(r)
	}
	return sel.Drain(), nil
}
