// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package topk

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

type zoneRecord = Record[int, string, string]

func rec(score int, id string) zoneRecord {
	return zoneRecord{Score: score, Identity: id, Label: id}
}

func scoresOf[S interface{ ~int | ~int64 | ~float64 }, ID, L any](rs []Record[S, ID, L]) []S {
	out := make([]S, len(rs))
	for i, r := range rs {
		out[i] = r.Score
	}
	return out
}

// checkHeap fails the test if the held slice violates the min-heap property.
func checkHeap[S interface{ ~int | ~int64 | ~float64 }, ID, L any](t *testing.T, s *Selector[S, ID, L]) {
	t.Helper()
	if len(s.held) > s.capacity {
		t.Fatalf("held %d records, capacity %d", len(s.held), s.capacity)
	}
	for i := 1; i < len(s.held); i++ {
		parent := (i - 1) / 2
		if s.held[parent].rec.Score > s.held[i].rec.Score {
			t.Fatalf("heap property violated at %d: parent %v > child %v", i, s.held[parent].rec.Score, s.held[i].rec.Score)
		}
	}
}

// sortSlice is the reference answer: full descending sort, then the first k scores.
func sortSlice(records []zoneRecord, k int) []int {
	scores := scoresOf(records)
	slices.SortFunc(scores, func(a, b int) int { return b - a })
	if k < len(scores) {
		scores = scores[:k]
	}
	return scores
}

func TestNew_NegativeCapacity(t *testing.T) {
	t.Parallel()

	sel, err := New[int, string, string](-1)
	if err == nil {
		t.Fatal("Expected error for negative capacity")
	}
	if !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("Expected ErrInvalidCapacity, got %v", err)
	}
	if sel != nil {
		t.Error("Expected nil selector on error")
	}
}

func TestSelectTopK_NegativeK(t *testing.T) {
	t.Parallel()

	_, err := SelectTopK([]zoneRecord{rec(1, "A")}, -3)
	if !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("Expected ErrInvalidCapacity, got %v", err)
	}
}

func TestSelectTopK_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		records    []zoneRecord
		k          int
		wantScores []int
		wantIDs    []string
	}{
		{
			name:       "busiest three with tie",
			records:    []zoneRecord{rec(10, "A"), rec(3, "B"), rec(7, "C"), rec(10, "D"), rec(1, "E")},
			k:          3,
			wantScores: []int{10, 10, 7},
			wantIDs:    []string{"A", "D", "C"},
		},
		{
			name:       "empty input",
			records:    nil,
			k:          5,
			wantScores: []int{},
			wantIDs:    []string{},
		},
		{
			name:       "zero capacity",
			records:    []zoneRecord{rec(5, "X")},
			k:          0,
			wantScores: []int{},
			wantIDs:    []string{},
		},
		{
			name:       "k larger than input is a full sort",
			records:    []zoneRecord{rec(2, "A"), rec(9, "B"), rec(4, "C")},
			k:          10,
			wantScores: []int{9, 4, 2},
			wantIDs:    []string{"B", "C", "A"},
		},
		{
			name:       "k equal to input",
			records:    []zoneRecord{rec(1, "A"), rec(3, "B")},
			k:          2,
			wantScores: []int{3, 1},
			wantIDs:    []string{"B", "A"},
		},
		{
			name:       "duplicate identities are independent",
			records:    []zoneRecord{rec(8, "Z"), rec(2, "Y"), rec(8, "Z")},
			k:          2,
			wantScores: []int{8, 8},
			wantIDs:    []string{"Z", "Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := SelectTopK(tt.records, tt.k)
			if err != nil {
				t.Fatalf("SelectTopK() error = %v", err)
			}
			if !slices.Equal(scoresOf(got), tt.wantScores) {
				t.Errorf("scores = %v, want %v", scoresOf(got), tt.wantScores)
			}
			ids := make([]string, len(got))
			for i, r := range got {
				ids[i] = r.Identity
			}
			if !slices.Equal(ids, tt.wantIDs) {
				t.Errorf("identities = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestSelectTopK_LabelCarriedThrough(t *testing.T) {
	t.Parallel()

	type label struct {
		Name    string
		Borough string
	}
	records := []Record[int64, int, label]{
		{Score: 120, Identity: 132, Label: label{"JFK Airport", "Queens"}},
		{Score: 450, Identity: 237, Label: label{"Upper East Side South", "Manhattan"}},
		{Score: 30, Identity: 1, Label: label{"Newark Airport", "EWR"}},
	}

	got, err := SelectTopK(records, 2)
	if err != nil {
		t.Fatalf("SelectTopK() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got))
	}
	if got[0].Identity != 237 || got[0].Label.Name != "Upper East Side South" || got[0].Label.Borough != "Manhattan" {
		t.Errorf("Unexpected first record: %+v", got[0])
	}
	if got[1].Identity != 132 || got[1].Label.Borough != "Queens" {
		t.Errorf("Unexpected second record: %+v", got[1])
	}
}

func TestOffer_AdmissionRules(t *testing.T) {
	t.Parallel()

	sel, err := New[int, string, string](2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if !sel.Offer(rec(5, "A")) {
		t.Error("Expected admission while below capacity")
	}
	if !sel.Offer(rec(1, "B")) {
		t.Error("Expected admission while below capacity")
	}
	if root, _ := sel.Min(); root.Identity != "B" {
		t.Errorf("Expected B at root, got %s", root.Identity)
	}

	// Equal to the root: incumbent wins.
	if sel.Offer(rec(1, "C")) {
		t.Error("Expected rejection of a score equal to the minimum")
	}
	if sel.Offer(rec(0, "D")) {
		t.Error("Expected rejection of a score below the minimum")
	}
	if !sel.Offer(rec(3, "E")) {
		t.Error("Expected admission of a score above the minimum")
	}
	if root, _ := sel.Min(); root.Identity != "E" {
		t.Errorf("Expected E at root after eviction, got %s", root.Identity)
	}
	checkHeap(t, sel)

	stats := sel.Stats()
	want := Stats{Offered: 5, Admitted: 3, Evicted: 1, Rejected: 2}
	if stats != want {
		t.Errorf("Stats() = %+v, want %+v", stats, want)
	}
}

func TestOffer_ZeroCapacity(t *testing.T) {
	t.Parallel()

	sel, err := New[int, string, string](0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		if sel.Offer(rec(i, "X")) {
			t.Fatalf("Zero-capacity selector admitted score %d", i)
		}
	}
	if sel.Len() != 0 {
		t.Errorf("Expected len 0, got %d", sel.Len())
	}
	if _, ok := sel.Min(); ok {
		t.Error("Expected Min() to report empty")
	}
	if got := sel.Drain(); len(got) != 0 {
		t.Errorf("Expected empty drain, got %v", got)
	}
}

func TestDrain_Idempotent(t *testing.T) {
	t.Parallel()

	sel, _ := New[int, string, string](4)
	for _, r := range []zoneRecord{rec(4, "A"), rec(4, "B"), rec(9, "C"), rec(1, "D"), rec(4, "E"), rec(7, "F")} {
		sel.Offer(r)
	}

	heldBefore := slices.Clone(sel.held)
	first := sel.Drain()
	second := sel.Drain()

	if !slices.Equal(first, second) {
		t.Errorf("Drain() not idempotent: %v vs %v", first, second)
	}
	if !slices.Equal(heldBefore, sel.held) {
		t.Error("Drain() mutated the heap")
	}

	// Offers after a drain keep working against the same heap.
	sel.Offer(rec(8, "G"))
	third := sel.Drain()
	if !slices.Equal(scoresOf(third), []int{9, 8, 7, 4}) {
		t.Errorf("Expected [9 8 7 4] after further offers, got %v", scoresOf(third))
	}
}

func TestDrain_TieOrderFollowsAdmission(t *testing.T) {
	t.Parallel()

	sel, _ := New[int, string, string](5)
	for _, id := range []string{"first", "second", "third"} {
		sel.Offer(rec(6, id))
	}
	sel.Offer(rec(6, "fourth"))
	sel.Offer(rec(2, "low"))
	// Evicts "low"; the newcomer ties with the others but was admitted last.
	sel.Offer(rec(6, "fifth"))

	got := sel.Drain()
	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.Identity
	}
	want := []string{"first", "second", "third", "fourth", "fifth"}
	if !slices.Equal(ids, want) {
		t.Errorf("tie order = %v, want %v", ids, want)
	}
}

func TestSelectTopK_MatchesSortAndSlice(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(42, 7))
	for trial := 0; trial < 200; trial++ {
		n := rng.IntN(60)
		records := make([]zoneRecord, n)
		for i := range records {
			// Narrow score range forces plenty of ties.
			records[i] = rec(rng.IntN(20), "z")
		}
		k := rng.IntN(n + 5)

		got, err := SelectTopK(records, k)
		if err != nil {
			t.Fatalf("trial %d: SelectTopK() error = %v", trial, err)
		}

		wantLen := min(k, n)
		if len(got) != wantLen {
			t.Fatalf("trial %d: len = %d, want %d", trial, len(got), wantLen)
		}
		gotScores := scoresOf(got)
		if !slices.IsSortedFunc(gotScores, func(a, b int) int { return b - a }) {
			t.Fatalf("trial %d: output not descending: %v", trial, gotScores)
		}
		if want := sortSlice(records, k); !slices.Equal(gotScores, want) {
			t.Fatalf("trial %d: scores = %v, want %v", trial, gotScores, want)
		}
	}
}

func TestSelectTopK_OrderIndependentWinners(t *testing.T) {
	t.Parallel()

	base := []zoneRecord{
		rec(15, "A"), rec(3, "B"), rec(15, "C"), rec(8, "D"), rec(42, "E"),
		rec(8, "F"), rec(1, "G"), rec(23, "H"), rec(8, "I"), rec(0, "J"),
	}
	want := sortSlice(base, 5)

	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 50; trial++ {
		shuffled := slices.Clone(base)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := SelectTopK(shuffled, 5)
		if err != nil {
			t.Fatalf("SelectTopK() error = %v", err)
		}
		if !slices.Equal(scoresOf(got), want) {
			t.Fatalf("permutation %d: scores = %v, want %v", trial, scoresOf(got), want)
		}
	}
}

func TestOffer_HeapPropertyMaintained(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(9, 9))
	sel, _ := New[float64, int, struct{}](16)
	for i := 0; i < 2000; i++ {
		sel.Offer(Record[float64, int, struct{}]{Score: rng.Float64() * 1000, Identity: i})
		checkHeap(t, sel)
	}
	if sel.Len() != 16 {
		t.Errorf("Expected len 16, got %d", sel.Len())
	}
	if sel.Cap() != 16 {
		t.Errorf("Expected cap 16, got %d", sel.Cap())
	}

	stats := sel.Stats()
	if stats.Offered != 2000 {
		t.Errorf("Expected 2000 offered, got %d", stats.Offered)
	}
	if stats.Admitted+stats.Rejected != stats.Offered {
		t.Errorf("Admitted (%d) + Rejected (%d) != Offered (%d)", stats.Admitted, stats.Rejected, stats.Offered)
	}
	if stats.Admitted-stats.Evicted != 16 {
		t.Errorf("Expected admitted-evicted == held (16), got %d", stats.Admitted-stats.Evicted)
	}
}

func TestSelectTopKSeq_Streaming(t *testing.T) {
	t.Parallel()

	seq := func(yield func(Record[int64, int, string]) bool) {
		for i := int64(0); i < 1000; i++ {
			if !yield(Record[int64, int, string]{Score: i % 97, Identity: int(i)}) {
				return
			}
		}
	}

	got, err := SelectTopKSeq(seq, 3)
	if err != nil {
		t.Fatalf("SelectTopKSeq() error = %v", err)
	}
	if !slices.Equal(scoresOf(got), []int64{96, 96, 96}) {
		t.Errorf("scores = %v, want [96 96 96]", scoresOf(got))
	}
	// The three 96s arrive at 96, 193 and 290; later ones tie and are rejected.
	ids := []int{got[0].Identity, got[1].Identity, got[2].Identity}
	if !slices.Equal(ids, []int{96, 193, 290}) {
		t.Errorf("identities = %v, want [96 193 290]", ids)
	}
}

func TestNew_LargeCapacityDoesNotPreallocate(t *testing.T) {
	t.Parallel()

	sel, err := New[int, string, string](1 << 40)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sel.Offer(rec(1, "A"))
	if got := sel.Drain(); len(got) != 1 {
		t.Errorf("Expected 1 record, got %d", len(got))
	}
}

func BenchmarkSelectTopK(b *testing.B) {
	rng := rand.New(rand.NewPCG(3, 4))
	records := make([]Record[int64, int, string], 10000)
	for i := range records {
		records[i] = Record[int64, int, string]{Score: rng.Int64N(1_000_000), Identity: i}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := SelectTopK(records, 15); err != nil {
			b.Fatal(err)
		}
	}
}
