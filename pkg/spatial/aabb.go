package spatial

// AABB is an axis-aligned bounding box, immutable once created. Callers must
// keep MinX ≤ MaxX and MinY ≤ MaxY.
type AABB struct {
	MinX, MinY float32
	MaxX, MaxY float32
}

// Contains reports whether the point lies inside the box, all edges
// inclusive.
func (b AABB) Contains(x, y float32) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// IntersectsCircle reports whether the circle around (cx, cy) touches the
// box, via closest-point clamping: the circle center is clamped into the box
// and the squared distance to the clamp is tested against the squared radius.
func (b AABB) IntersectsCircle(cx, cy, r float32) bool {
	px := clamp(cx, b.MinX, b.MaxX)
	py := clamp(cy, b.MinY, b.MaxY)
	dx := cx - px
	dy := cy - py
	return dx*dx+dy*dy <= r*r
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
