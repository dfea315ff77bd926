// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

/*
Package topk provides a bounded top-K selector backed by a fixed-capacity min-heap.

The selector answers "which K records score highest" over an input of any size
in O(n log K) time and O(K) memory. It is used to rank pickup zones by trip count
for the top-zones insight without ordering every zone.

# Algorithm

The selector keeps at most K records in an array-backed binary min-heap, so the
weakest held record always sits at index 0:

  - While fewer than K records are held, a new record is appended and sifted up.
  - Once full, a new record is compared with the root. If its score is strictly
    greater it replaces the root, which is then sifted down. Otherwise it is
    rejected with a single comparison.
  - Drain copies the heap and sorts the copy from highest to lowest score.

For index i the parent is (i-1)/2 and the children are 2i+1 and 2i+2.

# Ties

A record whose score equals the current minimum is rejected, so among equal
scores the record admitted first is retained. Drain orders equal scores by
admission sequence, earliest first, which makes the output deterministic for a
given heap content.

# Usage

	ranked, err := topk.SelectTopK(records, 15)
	if err != nil {
	    return err // only for negative k
	}

Streaming input avoids buffering the full collection:

	sel, err := topk.New[int64, int, string](15)
	if err != nil {
	    return err
	}
	for rows.Next() {
	    sel.Offer(topk.Record[int64, int, string]{Score: count, Identity: id, Label: name})
	}
	ranked := sel.Drain()

# Thread Safety

A Selector is not safe for concurrent use. Independent selectors share no state.
*/
package topk
