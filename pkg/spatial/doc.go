// Package spatial provides a quadtree index over node positions for
// proximity and region queries: hit-testing, nearest-node lookup, and radius
// selection over a laid-out graph.
//
// # Structure
//
// The tree is stored as an arena: a flat slice of node records addressed by
// index, each holding its bounds, a local point list, and the arena index of
// its first child (four children are always allocated together, in NW, NE,
// SW, SE order). This keeps insertion iterative and allocation churn low —
// there is no boxed recursive structure anywhere.
//
// Each node keeps the points it accumulated before it subdivided; they are
// never pushed down afterwards. Queries therefore union every visited node's
// local list with matching descendants.
//
// # Boundary Convention
//
// Child selection is by midpoint comparison: x ≥ midX routes east, y ≥ midY
// routes south. Equivalently each child owns its low edges and excludes its
// high edges, except along the root's outer max edges, so every point inside
// the root's (closed) bounds lands in exactly one quadrant.
//
// # Query Semantics
//
// [Quadtree.QueryPoint] prunes by circle/box intersection and returns every
// point stored in a surviving node. Results are candidates whose node's box
// meets the circle — never a false negative, possibly false positives.
// Callers needing exact hits post-filter by true distance.
package spatial
