package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/btree"

	"github.com/bloomlab/bloom/pkg/analytics"
	"github.com/bloomlab/bloom/pkg/cache"
	"github.com/bloomlab/bloom/pkg/graph"
	"github.com/bloomlab/bloom/pkg/spatial"
	"github.com/bloomlab/bloom/pkg/wire"
)

// Dataset is one registered graph plus its lazily computed analytics.
//
// The graph itself is immutable after registration. Analytics are memoized
// under the mutex: the first request for a given result computes it, later
// requests reuse it. Score vectors are keyed by their run parameters so
// callers asking for non-default damping do not poison the memo.
type Dataset struct {
	Name  string
	Graph *graph.Graph
	Hash  string

	mu          sync.Mutex
	scores      map[scoreParams][]float64
	communities []int
	betweenness []float64
	index       *SpatialIndex
}

type scoreParams struct {
	iterations int
	damping    float64
}

// NewDataset decodes a wire payload into a registered dataset.
func NewDataset(name string, payload []byte) (*Dataset, error) {
	g, err := wire.Decode(payload)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Name:  name,
		Graph: g,
		Hash:  cache.Hash(payload),
	}, nil
}

// Scores returns centrality scores for the given parameters, computing and
// memoizing them on first use.
func (d *Dataset) Scores(iterations int, damping float64) []float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := scoreParams{iterations: iterations, damping: damping}
	if s, ok := d.scores[key]; ok {
		return s
	}
	s := analytics.PageRank(d.Graph, iterations, damping)
	if d.scores == nil {
		d.scores = make(map[scoreParams][]float64)
	}
	d.scores[key] = s
	return s
}

// Communities returns the memoized community assignment.
func (d *Dataset) Communities() []int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.communities == nil {
		d.communities = analytics.Communities(d.Graph)
	}
	return d.communities
}

// Betweenness returns the memoized betweenness centrality.
func (d *Dataset) Betweenness() []float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.betweenness == nil {
		d.betweenness = analytics.Betweenness(d.Graph)
	}
	return d.betweenness
}

// SpatialIndex pairs a quadtree with the coordinate snapshot it was built
// from. Both are immutable once published, so readers only need the dataset
// mutex to fetch the pointer, never to query.
type SpatialIndex struct {
	qt *spatial.Quadtree
	x  []float32
	y  []float32
}

// Query returns candidate node indices within radius of (qx, qy). The
// quadtree prunes by clamped box distance, so candidates can over-return
// near box corners; Exact post-filters by true distance.
func (si *SpatialIndex) Query(qx, qy, radius float32) []int {
	return si.qt.QueryPoint(qx, qy, radius)
}

// Exact drops candidates outside the true query circle, measured against
// the snapshot the quadtree was built from.
func (si *SpatialIndex) Exact(indices []int, qx, qy, radius float32) []int {
	out := indices[:0]
	r2 := float64(radius) * float64(radius)
	for _, i := range indices {
		dx := float64(si.x[i] - qx)
		dy := float64(si.y[i] - qy)
		if dx*dx+dy*dy <= r2 {
			out = append(out, i)
		}
	}
	return out
}

// SetPositions records display coordinates for the named nodes and publishes
// a fresh spatial index over them. Coordinates live only in the index
// snapshot; the graph is never written, so concurrent readers of node data
// stay safe. Unknown ids are reported back; known ids are applied
// regardless. Later uploads merge over earlier ones.
func (d *Dataset) SetPositions(positions []Position) (unknown []uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.Graph.NodeCount()
	x := make([]float32, n)
	y := make([]float32, n)
	if d.index != nil {
		copy(x, d.index.x)
		copy(y, d.index.y)
	}

	applied := false
	for _, p := range positions {
		i, ok := d.Graph.IndexOf(p.ID)
		if !ok {
			unknown = append(unknown, p.ID)
			continue
		}
		x[i] = p.X
		y[i] = p.Y
		applied = true
	}
	if applied {
		d.index = buildSpatialIndex(x, y)
	}
	return unknown
}

// Index returns the spatial index published by SetPositions, or nil when no
// positions have been uploaded yet.
func (d *Dataset) Index() *SpatialIndex {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.index
}

// buildSpatialIndex indexes every node position. Bounds are the tight
// bounding box of the coordinates, so the root accepts all of them.
func buildSpatialIndex(x, y []float32) *SpatialIndex {
	if len(x) == 0 {
		return nil
	}

	bounds := spatial.AABB{MinX: x[0], MinY: y[0], MaxX: x[0], MaxY: y[0]}
	for i := 1; i < len(x); i++ {
		if x[i] < bounds.MinX {
			bounds.MinX = x[i]
		}
		if y[i] < bounds.MinY {
			bounds.MinY = y[i]
		}
		if x[i] > bounds.MaxX {
			bounds.MaxX = x[i]
		}
		if y[i] > bounds.MaxY {
			bounds.MaxY = y[i]
		}
	}

	qt := spatial.New(bounds, spatial.DefaultCapacity)
	for i := range x {
		qt.Insert(i, x[i], y[i])
	}
	return &SpatialIndex{qt: qt, x: x, y: y}
}

// Registry holds the registered datasets, ordered by name.
type Registry struct {
	mu       sync.RWMutex
	datasets btree.Map[string, *Dataset]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Get looks up a dataset by name.
func (r *Registry) Get(name string) (*Dataset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.datasets.Get(name)
}

// Set registers a dataset, replacing any previous one with the same name.
func (r *Registry) Set(d *Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.datasets.Set(d.Name, d)
}

// Delete removes a dataset. Removing an unknown name is a no-op.
func (r *Registry) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.datasets.Delete(name)
}

// List returns all datasets in name order.
func (r *Registry) List() []*Dataset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Dataset, 0, r.datasets.Len())
	r.datasets.Scan(func(_ string, d *Dataset) bool {
		out = append(out, d)
		return true
	})
	return out
}

// Len returns the number of registered datasets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.datasets.Len()
}

// DatasetExt is the file extension the loader and watcher recognize.
const DatasetExt = ".bloom"

// LoadDir loads every dataset file in dir into the registry. The dataset
// name is the file stem. Files that fail to decode are skipped and reported
// in the returned error list; loading continues past them.
func (r *Registry) LoadDir(dir string) []error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []error{fmt.Errorf("read dataset dir %s: %w", dir, err)}
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), DatasetExt) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := r.LoadFile(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// LoadFile loads a single dataset file, named by its stem.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), DatasetExt)
	d, err := NewDataset(name, data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	r.Set(d)
	return nil
}
