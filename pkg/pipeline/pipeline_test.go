package pipeline

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/bloomlab/bloom/pkg/cache"
	"github.com/bloomlab/bloom/pkg/errors"
	"github.com/bloomlab/bloom/pkg/graph"
	"github.com/bloomlab/bloom/pkg/wire"
)

// testPayload encodes a small labeled graph: a triangle 1-2-3 plus a
// pendant node 4 hanging off node 1.
func testPayload(t *testing.T) []byte {
	t.Helper()
	nodes := []graph.Node{
		{ID: 1, Label: "a", Degree: 3},
		{ID: 2, Label: "b", Degree: 2},
		{ID: 3, Label: "c", Degree: 2},
		{ID: 4, Label: "d", Degree: 1},
	}
	edges := []graph.Edge{
		{Source: 1, Target: 2},
		{Source: 2, Target: 3},
		{Source: 3, Target: 1},
		{Source: 1, Target: 4},
	}
	data, err := wire.Encode(graph.New(nodes, edges), wire.EncodeOptions{})
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return data
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Damping != DefaultDamping {
		t.Errorf("Damping = %v, want %v", opts.Damping, DefaultDamping)
	}
	if opts.Iterations != DefaultIterations {
		t.Errorf("Iterations = %v, want %v", opts.Iterations, DefaultIterations)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"damping too high", Options{Damping: 1.5}},
		{"damping negative", Options{Damping: -0.1}},
		{"iterations negative", Options{Iterations: -5}},
		{"iterations huge", Options{Iterations: 100000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("ValidateAndSetDefaults() should reject invalid options")
			}
		})
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), testPayload(t), Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Graph.NodeCount() != 4 || result.Graph.EdgeCount() != 4 {
		t.Errorf("graph = %d nodes, %d edges; want 4, 4", result.Graph.NodeCount(), result.Graph.EdgeCount())
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}
	if len(result.Scores) != 4 {
		t.Fatalf("Scores length = %d, want 4", len(result.Scores))
	}

	// Scores form a probability distribution.
	var sum float64
	for _, s := range result.Scores {
		sum += s
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("score sum = %v, want ~1.0", sum)
	}

	// Scores are written back onto the graph.
	for i, n := range result.Graph.Nodes() {
		if n.Score == 0 {
			t.Errorf("node %d score not written back", i)
		}
	}

	// Optional stages stay off by default.
	if result.Communities != nil || result.Betweenness != nil || result.Report != nil {
		t.Error("optional stages should not run unless requested")
	}
}

func TestExecute_OptionalStages(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := Options{WithCommunities: true, WithBetweenness: true, WithReport: true}
	result, err := runner.Execute(context.Background(), testPayload(t), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(result.Communities) != 4 {
		t.Errorf("Communities length = %d, want 4", len(result.Communities))
	}
	if len(result.Betweenness) != 4 {
		t.Errorf("Betweenness length = %d, want 4", len(result.Betweenness))
	}
	if result.Report == nil {
		t.Fatal("Report should be set")
	}
	if result.Report.NodeCount != 4 || result.Report.GraphHash != result.GraphHash {
		t.Errorf("report = %+v, want 4 nodes and matching hash", result.Report)
	}
}

func TestExecute_DecodeError(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), []byte("not a payload at all"), Options{})
	if err == nil {
		t.Fatal("Execute() should fail on garbage input")
	}
	if !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeDecode)
	}
	if !stderrors.Is(err, wire.ErrBadMagic) {
		t.Error("decode sentinel should survive wrapping")
	}
}

func TestExecute_CacheHitOnSecondRun(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	payload := testPayload(t)
	opts := Options{WithCommunities: true, WithBetweenness: true}

	first, err := runner.Execute(ctx, payload, opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheInfo.ScoreHit || first.CacheInfo.CommunityHit || first.CacheInfo.BetweennessHit {
		t.Error("first run should not hit the cache")
	}

	second, err := runner.Execute(ctx, payload, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.ScoreHit || !second.CacheInfo.CommunityHit || !second.CacheInfo.BetweennessHit {
		t.Errorf("second run cache info = %+v, want all hits", second.CacheInfo)
	}

	for i := range first.Scores {
		if first.Scores[i] != second.Scores[i] {
			t.Errorf("cached score %d = %v, computed %v", i, second.Scores[i], first.Scores[i])
		}
	}
}

func TestExecute_RefreshBypassesCache(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	payload := testPayload(t)

	if _, err := runner.Execute(ctx, payload, Options{}); err != nil {
		t.Fatalf("warm-up Execute() error = %v", err)
	}

	result, err := runner.Execute(ctx, payload, Options{Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}
	if result.CacheInfo.ScoreHit {
		t.Error("Refresh should bypass the score cache")
	}
}

func TestExecute_ScoreParamsKeyedSeparately(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	payload := testPayload(t)

	if _, err := runner.Execute(ctx, payload, Options{Iterations: 10}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// Different parameters must not reuse the previous entry.
	result, err := runner.Execute(ctx, payload, Options{Iterations: 20})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.CacheInfo.ScoreHit {
		t.Error("different iteration counts should miss the score cache")
	}
}

func TestRankWithCacheInfo_IgnoresStaleEntry(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	keyer := cache.NewDefaultKeyer()
	runner := NewRunner(c, keyer, nil)
	defer runner.Close()

	ctx := context.Background()
	payload := testPayload(t)
	g, err := wire.Decode(payload)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	hash := cache.Hash(payload)

	// Poison the cache with a vector of the wrong length.
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	key := keyer.ScoreKey(hash, opts.ScoreKeyOpts())
	_ = c.Set(ctx, key, []byte("[0.5, 0.5]"), 0)

	scores, hit, err := runner.RankWithCacheInfo(ctx, g, hash, opts)
	if err != nil {
		t.Fatalf("RankWithCacheInfo() error = %v", err)
	}
	if hit {
		t.Error("stale cache entry should not count as a hit")
	}
	if len(scores) != 4 {
		t.Errorf("scores length = %d, want 4", len(scores))
	}
}
