package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bloomlab/bloom/pkg/analytics"
	"github.com/bloomlab/bloom/pkg/errors"
	"github.com/bloomlab/bloom/pkg/wire"
)

// maxUploadBytes bounds dataset uploads. Payloads are column data, so even
// large graphs stay well under this.
const maxUploadBytes = 64 << 20

func (s *Server) routes(r chi.Router) {
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1/datasets", func(r chi.Router) {
		r.Get("/", s.handleListDatasets)
		r.Route("/{name}", func(r chi.Router) {
			r.Post("/", s.handleUploadDataset)
			r.Get("/", s.handleDatasetSummary)
			r.Get("/rank", s.handleRank)
			r.Get("/communities", s.handleCommunities)
			r.Get("/path", s.handlePath)
			r.Get("/betweenness", s.handleBetweenness)
			r.Put("/positions", s.handlePositions)
			r.Get("/near", s.handleNear)
		})
	})
}

// =============================================================================
// Response Types
// =============================================================================

type datasetSummary struct {
	Name  string `json:"name"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
	Hash  string `json:"hash,omitempty"`
}

type rankedNode struct {
	Index int     `json:"index"`
	ID    uint32  `json:"id"`
	Label string  `json:"label,omitempty"`
	Score float64 `json:"score"`
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Position is one entry of a positions upload.
type Position struct {
	ID uint32  `json:"id"`
	X  float32 `json:"x"`
	Y  float32 `json:"y"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets := s.registry.List()
	out := make([]datasetSummary, len(datasets))
	for i, d := range datasets {
		out[i] = datasetSummary{Name: d.Name, Nodes: d.Graph.NodeCount(), Edges: d.Graph.EdgeCount()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateDatasetName(name); err != nil {
		writeError(w, r, http.StatusBadRequest, errors.UserMessage(err))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	d, err := NewDataset(name, body)
	if err != nil {
		decodeFailures.Inc()
		writeError(w, r, http.StatusBadRequest, "decode failed: "+decodeErrorName(err))
		return
	}

	s.registry.Set(d)
	datasetsLoaded.Set(float64(s.registry.Len()))
	s.logger.Info("registered dataset", "name", name, "nodes", d.Graph.NodeCount(), "edges", d.Graph.EdgeCount())

	writeJSON(w, http.StatusCreated, datasetSummary{
		Name: d.Name, Nodes: d.Graph.NodeCount(), Edges: d.Graph.EdgeCount(), Hash: d.Hash,
	})
}

func (s *Server) handleDatasetSummary(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, datasetSummary{
		Name: d.Name, Nodes: d.Graph.NodeCount(), Edges: d.Graph.EdgeCount(), Hash: d.Hash,
	})
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}

	iterations := analytics.DefaultIterations
	if v := r.URL.Query().Get("iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || errors.ValidateIterations(n) != nil {
			writeError(w, r, http.StatusBadRequest, "invalid iterations")
			return
		}
		iterations = n
	}

	damping := analytics.DefaultDamping
	if v := r.URL.Query().Get("damping"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || errors.ValidateDamping(f) != nil {
			writeError(w, r, http.StatusBadRequest, "invalid damping")
			return
		}
		damping = f
	}

	top, ok := parseTop(w, r)
	if !ok {
		return
	}

	scores := d.Scores(iterations, damping)
	writeJSON(w, http.StatusOK, map[string]any{
		"iterations": iterations,
		"damping":    damping,
		"nodes":      rankNodes(d, scores, top),
	})
}

func (s *Server) handleCommunities(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}

	assignments := d.Communities()
	count := 0
	for _, c := range assignments {
		if c >= count {
			count = c + 1
		}
	}
	sizes := make([]int, count)
	for _, c := range assignments {
		sizes[c]++
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":       count,
		"sizes":       sizes,
		"assignments": assignments,
	})
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}

	from, okFrom := parseNodeID(r, "from")
	to, okTo := parseNodeID(r, "to")
	if !okFrom || !okTo {
		writeError(w, r, http.StatusBadRequest, "from and to must be node ids")
		return
	}

	path, found := analytics.ShortestPath(d.Graph, from, to)
	if !found {
		writeError(w, r, http.StatusNotFound, "no path")
		return
	}

	nodes := d.Graph.Nodes()
	labels := make([]string, len(path))
	for i, idx := range path {
		labels[i] = nodes[idx].Label
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": path, "labels": labels})
}

func (s *Server) handleBetweenness(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	top, ok := parseTop(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes": rankNodes(d, d.Betweenness(), top),
	})
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}

	var positions []Position
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&positions); err != nil {
		writeError(w, r, http.StatusBadRequest, "decode positions: "+err.Error())
		return
	}

	for _, p := range positions {
		if _, ok := d.Graph.IndexOf(p.ID); !ok {
			writeError(w, r, http.StatusNotFound, "unknown node id "+strconv.FormatUint(uint64(p.ID), 10))
			return
		}
	}

	d.SetPositions(positions)
	writeJSON(w, http.StatusOK, map[string]any{"applied": len(positions)})
}

func (s *Server) handleNear(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}

	idx := d.Index()
	if idx == nil {
		writeError(w, r, http.StatusBadRequest, "no positions uploaded")
		return
	}

	x, okX := parseFloat32(r, "x")
	y, okY := parseFloat32(r, "y")
	radius, okR := parseFloat32(r, "radius")
	if !okX || !okY || !okR || radius < 0 {
		writeError(w, r, http.StatusBadRequest, "x, y, and radius are required")
		return
	}

	indices := idx.Query(x, y, radius)
	if r.URL.Query().Get("exact") == "true" {
		indices = idx.Exact(indices, x, y, radius)
	}

	if indices == nil {
		indices = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"indices": indices})
}

// =============================================================================
// Helpers
// =============================================================================

// dataset resolves the {name} URL parameter, writing a 404 when unknown.
func (s *Server) dataset(w http.ResponseWriter, r *http.Request) (*Dataset, bool) {
	name := chi.URLParam(r, "name")
	d, ok := s.registry.Get(name)
	if !ok {
		writeError(w, r, http.StatusNotFound, "dataset not found: "+name)
		return nil, false
	}
	return d, true
}

// rankNodes pairs scores with node identity, sorted descending. Ties break
// toward the lower node index. top of 0 returns all nodes.
func rankNodes(d *Dataset, scores []float64, top int) []rankedNode {
	nodes := d.Graph.Nodes()
	out := make([]rankedNode, len(nodes))
	for i, n := range nodes {
		out[i] = rankedNode{Index: i, ID: n.ID, Label: n.Label, Score: scores[i]}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	if top > 0 && top < len(out) {
		out = out[:top]
	}
	return out
}

func parseTop(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("top")
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		writeError(w, r, http.StatusBadRequest, "invalid top")
		return 0, false
	}
	return n, true
}

func parseNodeID(r *http.Request, param string) (uint32, bool) {
	v := r.URL.Query().Get(param)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

func parseFloat32(r *http.Request, param string) (float32, bool) {
	v := r.URL.Query().Get(param)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

// decodeErrorName maps a decode failure to its sentinel name so API clients
// can tell malformed payloads apart without string matching on messages.
func decodeErrorName(err error) string {
	switch {
	case stderrors.Is(err, wire.ErrTruncated):
		return "ErrTruncated"
	case stderrors.Is(err, wire.ErrBadMagic):
		return "ErrBadMagic"
	case stderrors.Is(err, wire.ErrVersion):
		return "ErrVersion"
	case stderrors.Is(err, wire.ErrOutOfRange):
		return "ErrOutOfRange"
	case stderrors.Is(err, wire.ErrInvalidText):
		return "ErrInvalidText"
	default:
		return err.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg, RequestID: requestIDFromContext(r.Context())})
}
