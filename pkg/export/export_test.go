package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bloomlab/bloom/pkg/graph"
)

func testGraph() *graph.Graph {
	nodes := []graph.Node{
		{ID: 1, Label: "alice", Score: 0.5, Degree: 2, X: 10, Y: 20},
		{ID: 2, Label: "bob", Degree: 1},
		{ID: 7},
	}
	edges := []graph.Edge{
		{Source: 1, Target: 2},
		{Source: 1, Target: 7},
	}
	return graph.New(nodes, edges)
}

func TestJSONRoundTrip(t *testing.T) {
	g := testGraph()

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	if got.NodeCount() != 3 || got.EdgeCount() != 2 {
		t.Fatalf("round-trip counts = %d nodes, %d edges; want 3, 2", got.NodeCount(), got.EdgeCount())
	}
	n, ok := got.NodeByID(1)
	if !ok {
		t.Fatal("node 1 missing after round trip")
	}
	if n.Label != "alice" || n.Score != 0.5 || n.Degree != 2 || n.X != 10 || n.Y != 20 {
		t.Errorf("node 1 = %+v, fields lost in round trip", *n)
	}
	if got.Edges()[0] != (graph.Edge{Source: 1, Target: 2}) {
		t.Errorf("edge order changed: %+v", got.Edges()[0])
	}
}

func TestReadJSON_DuplicateID(t *testing.T) {
	in := `{"nodes": [{"id": 1}, {"id": 1}], "edges": []}`
	if _, err := ReadJSON(strings.NewReader(in)); err == nil {
		t.Error("ReadJSON() with duplicate ids should fail")
	}
}

func TestReadJSON_Malformed(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{not json")); err == nil {
		t.Error("ReadJSON() with malformed input should fail")
	}
}

func TestReadJSON_DanglingEdgeAccepted(t *testing.T) {
	in := `{"nodes": [{"id": 1}], "edges": [{"source": 1, "target": 99}]}`
	g, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestToDOT(t *testing.T) {
	g := testGraph()
	dot := ToDOT(g, DOTOptions{})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Error("ToDOT() should start with 'graph G {'")
	}
	if !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Error("ToDOT() should end with '}'")
	}
	for _, want := range []string{`1 [label="alice"]`, `2 [label="bob"]`, `7 [label="7"]`, "1 -- 2;", "1 -- 7;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q", want)
		}
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() should emit undirected edges")
	}
}

func TestToDOT_Scores(t *testing.T) {
	g := testGraph()
	dot := ToDOT(g, DOTOptions{Scores: true})
	if !strings.Contains(dot, "0.5000") {
		t.Error("ToDOT() with Scores should include score values")
	}
}

func TestNewReport(t *testing.T) {
	g := testGraph()
	scores := []float64{0.2, 0.5, 0.3}
	communities := []int{0, 0, 1}

	r := NewReport(g, scores, communities, "abc123")

	if r.ID == "" {
		t.Error("report should carry an id")
	}
	if r.NodeCount != 3 || r.EdgeCount != 2 {
		t.Errorf("counts = %d, %d; want 3, 2", r.NodeCount, r.EdgeCount)
	}
	if r.Communities != 2 {
		t.Errorf("Communities = %d, want 2", r.Communities)
	}
	if len(r.TopNodes) != 3 {
		t.Fatalf("TopNodes length = %d, want 3", len(r.TopNodes))
	}
	// Descending by score: bob (0.5), node 7 (0.3), alice (0.2).
	wantIDs := []uint32{2, 7, 1}
	for i, want := range wantIDs {
		if r.TopNodes[i].ID != want {
			t.Errorf("TopNodes[%d].ID = %d, want %d", i, r.TopNodes[i].ID, want)
		}
	}
}

func TestNewReport_TieBreaksByIndex(t *testing.T) {
	g := testGraph()
	scores := []float64{0.5, 0.5, 0.5}

	r := NewReport(g, scores, nil, "")
	wantIDs := []uint32{1, 2, 7}
	for i, want := range wantIDs {
		if r.TopNodes[i].ID != want {
			t.Errorf("TopNodes[%d].ID = %d, want %d", i, r.TopNodes[i].ID, want)
		}
	}
}

func TestNewReport_NilStages(t *testing.T) {
	g := testGraph()
	r := NewReport(g, nil, nil, "")
	if r.TopNodes != nil {
		t.Error("TopNodes should be empty when scores is nil")
	}
	if r.Communities != 0 {
		t.Error("Communities should be zero when communities is nil")
	}
}

func TestReportIDsUnique(t *testing.T) {
	g := testGraph()
	a := NewReport(g, nil, nil, "")
	b := NewReport(g, nil, nil, "")
	if a.ID == b.ID {
		t.Error("two reports should not share an id")
	}
}

func TestWriteReport(t *testing.T) {
	g := testGraph()
	r := NewReport(g, []float64{0.2, 0.5, 0.3}, nil, "hash")

	var buf bytes.Buffer
	if err := WriteReport(r, &buf); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report output is not valid JSON: %v", err)
	}
	if decoded.ID != r.ID || decoded.NodeCount != 3 {
		t.Errorf("decoded report = %+v, want id %s and 3 nodes", decoded, r.ID)
	}
}

func TestExportImportJSONFile(t *testing.T) {
	g := testGraph()
	path := t.TempDir() + "/graph.json"

	if err := ExportJSON(g, path); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if got.NodeCount() != g.NodeCount() || got.EdgeCount() != g.EdgeCount() {
		t.Error("file round trip changed graph size")
	}
}
