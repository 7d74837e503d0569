package spatial

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

func unit() AABB { return AABB{0, 0, 100, 100} }

func TestInsert_OutsideBoundsRejected(t *testing.T) {
	qt := New(unit(), 4)

	tests := []struct {
		x, y float32
		want bool
	}{
		{50, 50, true},
		{0, 0, true},     // low edges inclusive
		{100, 100, true}, // outer max edges inclusive
		{-1, 50, false},
		{50, 101, false},
	}
	for _, tt := range tests {
		if got := qt.Insert(0, tt.x, tt.y); got != tt.want {
			t.Errorf("Insert(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestInsert_CapacityOneSubdivides(t *testing.T) {
	qt := New(unit(), 1)

	if !qt.Insert(0, 10, 10) {
		t.Fatal("first insert rejected")
	}
	if len(qt.nodes) != 1 {
		t.Fatalf("tree subdivided after one insert: %d records", len(qt.nodes))
	}
	if !qt.Insert(1, 90, 90) {
		t.Fatal("second insert rejected")
	}
	if len(qt.nodes) != 5 {
		t.Errorf("records after overflow = %d, want 5 (root + four quadrants)", len(qt.nodes))
	}

	// Third point at the first point's exact position: still accepted, no
	// dedup is performed.
	if !qt.Insert(2, 10, 10) {
		t.Error("duplicate-position insert rejected")
	}
	if qt.Len() != 3 {
		t.Errorf("Len() = %d, want 3", qt.Len())
	}
}

func TestInsert_PreSubdivisionPointsStayPut(t *testing.T) {
	qt := New(unit(), 2)
	qt.Insert(0, 10, 10)
	qt.Insert(1, 90, 90)
	qt.Insert(2, 60, 60) // forces subdivision

	// The first two points must still live on the root record.
	if got := len(qt.nodes[0].points); got != 2 {
		t.Errorf("root local points = %d, want 2 (never pushed down)", got)
	}

	// And a query must union root-level points with descendants.
	got := qt.QueryPoint(50, 50, 100)
	if len(got) != 3 {
		t.Errorf("QueryPoint over everything = %v, want all 3 indices", got)
	}
}

func TestInsert_BoundaryPointLandsInOneQuadrant(t *testing.T) {
	qt := New(unit(), 1)
	qt.Insert(0, 10, 10)

	// (50, 50) sits on both midlines; x ≥ midX and y ≥ midY route it SE.
	if !qt.Insert(1, 50, 50) {
		t.Fatal("midpoint insert rejected")
	}
	children := qt.nodes[0].children
	se := qt.nodes[children+3]
	if len(se.points) != 1 || se.points[0].index != 1 {
		t.Errorf("SE quadrant points = %+v, want the midpoint entry", se.points)
	}
	for q, name := range []string{"NW", "NE", "SW"} {
		if n := len(qt.nodes[children+q].points); n != 0 {
			t.Errorf("%s quadrant holds %d points, want 0", name, n)
		}
	}
}

func TestQueryPoint_NoFalseNegatives(t *testing.T) {
	qt := New(unit(), 4)
	rng := rand.New(rand.NewSource(1))

	type pos struct{ x, y float32 }
	points := make([]pos, 200)
	for i := range points {
		points[i] = pos{rng.Float32() * 100, rng.Float32() * 100}
		if !qt.Insert(i, points[i].x, points[i].y) {
			t.Fatalf("insert %d rejected", i)
		}
	}

	queries := []struct{ x, y, r float32 }{
		{50, 50, 10}, {0, 0, 25}, {100, 100, 5}, {30, 70, 50},
	}
	for _, q := range queries {
		got := map[int]bool{}
		for _, idx := range qt.QueryPoint(q.x, q.y, q.r) {
			got[idx] = true
		}
		for i, p := range points {
			dx := float64(p.x - q.x)
			dy := float64(p.y - q.y)
			if math.Sqrt(dx*dx+dy*dy) <= float64(q.r) && !got[i] {
				t.Errorf("query (%v,%v,r=%v) missed in-radius point %d at (%v,%v)",
					q.x, q.y, q.r, i, p.x, p.y)
			}
		}
	}
}

func TestQueryPoint_PrunesDistantSubtrees(t *testing.T) {
	qt := New(unit(), 1)
	qt.Insert(0, 5, 5)
	qt.Insert(1, 95, 95)
	qt.Insert(2, 95, 5)

	got := qt.QueryPoint(5, 5, 10)
	for _, idx := range got {
		if idx != 0 {
			t.Errorf("QueryPoint near origin returned distant index %d", idx)
		}
	}
	if len(got) == 0 {
		t.Error("QueryPoint missed the point at the query center")
	}
}

func TestQueryPoint_EmptyTree(t *testing.T) {
	qt := New(unit(), 4)
	if got := qt.QueryPoint(50, 50, 10); got != nil {
		t.Errorf("QueryPoint on empty tree = %v, want nil", got)
	}
}

func TestQueryPoint_Deterministic(t *testing.T) {
	qt := New(unit(), 2)
	for i := 0; i < 20; i++ {
		qt.Insert(i, float32(i*5), float32(i*5))
	}

	first := qt.QueryPoint(50, 50, 100)
	for run := 0; run < 5; run++ {
		again := qt.QueryPoint(50, 50, 100)
		if len(again) != len(first) {
			t.Fatalf("run %d: %d results, want %d", run, len(again), len(first))
		}
		for i := range first {
			if again[i] != first[i] {
				t.Fatalf("run %d: order differs at %d: %v vs %v", run, i, again, first)
			}
		}
	}

	// Every inserted index must be present exactly once.
	sorted := append([]int(nil), first...)
	sort.Ints(sorted)
	for i, idx := range sorted {
		if idx != i {
			t.Fatalf("missing or duplicated index in %v", sorted)
		}
	}
}

func TestAABB_IntersectsCircle(t *testing.T) {
	b := AABB{10, 10, 20, 20}

	tests := []struct {
		cx, cy, r float32
		want      bool
	}{
		{15, 15, 1, true},  // center inside
		{25, 15, 5, true},  // touches the right edge
		{25, 15, 4, false}, // just short
		{0, 0, 5, false},   // corner too far
		{5, 5, 8, true},    // reaches the corner: dist = √50 ≈ 7.07
	}
	for _, tt := range tests {
		if got := b.IntersectsCircle(tt.cx, tt.cy, tt.r); got != tt.want {
			t.Errorf("IntersectsCircle(%v, %v, %v) = %v, want %v", tt.cx, tt.cy, tt.r, got, tt.want)
		}
	}
}
