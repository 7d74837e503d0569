package spatial

// DefaultCapacity is the per-node point capacity used when callers have no
// reason to tune it.
const DefaultCapacity = 8

// noChildren marks an arena record that has not subdivided.
const noChildren = -1

// point is one stored entry: a caller-side index (typically a graph node
// index) at a position.
type point struct {
	index int
	x, y  float32
}

// record is one arena slot. children is the arena index of the NW child; the
// other three quadrants follow contiguously in NE, SW, SE order.
type record struct {
	bounds   AABB
	points   []point
	children int
}

// Quadtree is an arena-backed spatial partition over 2D points. Create one
// with [New], fill it with [Quadtree.Insert], query with
// [Quadtree.QueryPoint]. Not safe for concurrent mutation.
type Quadtree struct {
	nodes    []record
	capacity int
	count    int
}

// New creates an empty quadtree covering bounds. capacity is the number of
// points a node holds before it subdivides; values below 1 are raised to 1.
func New(bounds AABB, capacity int) *Quadtree {
	if capacity < 1 {
		capacity = 1
	}
	return &Quadtree{
		nodes:    []record{{bounds: bounds, children: noChildren}},
		capacity: capacity,
	}
}

// Bounds returns the root bounds.
func (t *Quadtree) Bounds() AABB { return t.nodes[0].bounds }

// Len returns the number of stored points.
func (t *Quadtree) Len() int { return t.count }

// Insert stores index at (x, y) and reports whether the point was accepted.
// Points outside the root bounds are rejected. Duplicate positions are
// stored again, not deduplicated.
//
// A node with spare capacity takes the point locally. A full node subdivides
// (once, irreversibly) and routes the point to the quadrant owning it; points
// the node accumulated before subdividing stay where they are.
func (t *Quadtree) Insert(index int, x, y float32) bool {
	if !t.nodes[0].bounds.Contains(x, y) {
		return false
	}

	cur := 0
	for {
		nd := &t.nodes[cur]
		if nd.children == noChildren {
			if len(nd.points) < t.capacity {
				nd.points = append(nd.points, point{index: index, x: x, y: y})
				t.count++
				return true
			}
			t.subdivide(cur)
		}
		cur = t.childFor(cur, x, y)
	}
}

// childFor picks the quadrant owning (x, y) under the half-open midpoint
// convention: x ≥ midX routes east, y ≥ midY routes south.
func (t *Quadtree) childFor(cur int, x, y float32) int {
	b := t.nodes[cur].bounds
	midX := (b.MinX + b.MaxX) / 2
	midY := (b.MinY + b.MaxY) / 2

	q := 0 // NW
	if x >= midX {
		q++ // east: NE or SE
	}
	if y >= midY {
		q += 2 // south: SW or SE
	}
	return t.nodes[cur].children + q
}

// subdivide appends the four quadrant records (NW, NE, SW, SE) to the arena
// and links them. Existing local points are not redistributed.
func (t *Quadtree) subdivide(cur int) {
	b := t.nodes[cur].bounds
	midX := (b.MinX + b.MaxX) / 2
	midY := (b.MinY + b.MaxY) / 2

	t.nodes[cur].children = len(t.nodes)
	t.nodes = append(t.nodes,
		record{bounds: AABB{b.MinX, b.MinY, midX, midY}, children: noChildren}, // NW
		record{bounds: AABB{midX, b.MinY, b.MaxX, midY}, children: noChildren}, // NE
		record{bounds: AABB{b.MinX, midY, midX, b.MaxY}, children: noChildren}, // SW
		record{bounds: AABB{midX, midY, b.MaxX, b.MaxY}, children: noChildren}, // SE
	)
}

// QueryPoint returns the indices of all stored points whose node's box
// intersects the circle of the given radius around (x, y), in pre-order over
// the arena. The result may include points farther than radius from the
// center — box pruning over-approximates — but never misses one within it.
// Callers wanting exact hits filter the candidates by true distance.
func (t *Quadtree) QueryPoint(x, y, radius float32) []int {
	var out []int

	stack := []int{0}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nd := &t.nodes[cur]
		if !nd.bounds.IntersectsCircle(x, y, radius) {
			continue
		}
		for _, p := range nd.points {
			out = append(out, p.index)
		}
		if nd.children != noChildren {
			// Pushed in reverse so NW pops first, keeping pre-order.
			for q := 3; q >= 0; q-- {
				stack = append(stack, nd.children+q)
			}
		}
	}
	return out
}
