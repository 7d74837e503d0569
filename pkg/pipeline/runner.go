package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bloomlab/bloom/pkg/analytics"
	"github.com/bloomlab/bloom/pkg/cache"
	"github.com/bloomlab/bloom/pkg/errors"
	"github.com/bloomlab/bloom/pkg/export"
	"github.com/bloomlab/bloom/pkg/graph"
	"github.com/bloomlab/bloom/pkg/observability"
	"github.com/bloomlab/bloom/pkg/wire"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete decode → rank → communities → betweenness
// pipeline with caching.
func (r *Runner) Execute(ctx context.Context, payload []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Decode
	decodeStart := time.Now()
	g, hash, err := r.Decode(ctx, payload, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.GraphHash = hash
	result.Stats.DecodeTime = time.Since(decodeStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	r.Logger.Info("decoded graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.DecodeTime)

	// Stage 2: Rank
	rankStart := time.Now()
	scores, scoreHit, err := r.RankWithCacheInfo(ctx, g, hash, opts)
	if err != nil {
		return nil, err
	}
	result.Scores = scores
	result.Stats.RankTime = time.Since(rankStart)
	result.CacheInfo.ScoreHit = scoreHit

	// Write scores back onto the graph so exports carry them.
	nodes := g.Nodes()
	for i := range nodes {
		nodes[i].Score = float32(scores[i])
	}

	r.Logger.Info("ranked nodes",
		"iterations", opts.Iterations,
		"cached", scoreHit,
		"duration", result.Stats.RankTime)

	// Stage 3: Communities (optional)
	if opts.WithCommunities {
		commStart := time.Now()
		communities, commHit, err := r.CommunitiesWithCacheInfo(ctx, g, hash, opts)
		if err != nil {
			return nil, err
		}
		result.Communities = communities
		result.Stats.CommunityTime = time.Since(commStart)
		result.CacheInfo.CommunityHit = commHit

		r.Logger.Info("detected communities",
			"cached", commHit,
			"duration", result.Stats.CommunityTime)
	}

	// Stage 4: Betweenness (optional)
	if opts.WithBetweenness {
		btwStart := time.Now()
		betweenness, btwHit, err := r.BetweennessWithCacheInfo(ctx, g, hash, opts)
		if err != nil {
			return nil, err
		}
		result.Betweenness = betweenness
		result.Stats.BetweennessTime = time.Since(btwStart)
		result.CacheInfo.BetweennessHit = btwHit

		r.Logger.Info("computed betweenness",
			"cached", btwHit,
			"duration", result.Stats.BetweennessTime)
	}

	if opts.WithReport {
		result.Report = export.NewReport(g, result.Scores, result.Communities, hash)
	}

	return result, nil
}

// Decode turns a wire payload into a graph and returns its content hash.
// Decode failures keep their sentinel cause, so callers can still match
// against the wire package's errors.
func (r *Runner) Decode(ctx context.Context, payload []byte, opts Options) (*graph.Graph, string, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageDecode)
	start := time.Now()

	g, err := wire.Decode(payload)
	hooks.OnStageComplete(ctx, observability.StageDecode, time.Since(start), err)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeDecode, err, "decode graph payload")
	}

	hash := cache.Hash(payload)

	// Stash the payload under its hash so other consumers can fetch it
	// without holding the original bytes.
	if !opts.Refresh {
		_ = r.Cache.Set(ctx, r.Keyer.GraphKey(hash), payload, cache.TTLGraph)
	}

	return g, hash, nil
}

// RankWithCacheInfo computes centrality scores with caching and returns
// cache hit info.
func (r *Runner) RankWithCacheInfo(ctx context.Context, g *graph.Graph, hash string, opts Options) ([]float64, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.ScoreKey(hash, opts.ScoreKeyOpts())
	if scores, ok := r.cachedFloats(ctx, key, "scores", opts, g.NodeCount()); ok {
		return scores, true, nil
	}

	scores := r.runStage(ctx, observability.StageRank, func() []float64 {
		return analytics.PageRank(g, opts.Iterations, opts.Damping)
	})

	r.storeJSON(ctx, key, "scores", scores)
	return scores, false, nil
}

// Rank is a convenience wrapper that calls RankWithCacheInfo and discards the
// cache hit info.
func (r *Runner) Rank(ctx context.Context, g *graph.Graph, hash string, opts Options) ([]float64, error) {
	scores, _, err := r.RankWithCacheInfo(ctx, g, hash, opts)
	return scores, err
}

// CommunitiesWithCacheInfo detects communities with caching and returns
// cache hit info.
func (r *Runner) CommunitiesWithCacheInfo(ctx context.Context, g *graph.Graph, hash string, opts Options) ([]int, bool, error) {
	key := r.Keyer.CommunityKey(hash)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached []int
			if json.Unmarshal(data, &cached) == nil && len(cached) == g.NodeCount() {
				observability.Cache().OnCacheHit(ctx, "communities")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "communities")
	}

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageCommunities)
	start := time.Now()
	communities := analytics.Communities(g)
	hooks.OnStageComplete(ctx, observability.StageCommunities, time.Since(start), nil)

	r.storeJSON(ctx, key, "communities", communities)
	return communities, false, nil
}

// BetweennessWithCacheInfo computes betweenness centrality with caching and
// returns cache hit info.
func (r *Runner) BetweennessWithCacheInfo(ctx context.Context, g *graph.Graph, hash string, opts Options) ([]float64, bool, error) {
	key := r.Keyer.BetweennessKey(hash)
	if btw, ok := r.cachedFloats(ctx, key, "betweenness", opts, g.NodeCount()); ok {
		return btw, true, nil
	}

	btw := r.runStage(ctx, observability.StageBetweenness, func() []float64 {
		return analytics.Betweenness(g)
	})

	r.storeJSON(ctx, key, "betweenness", btw)
	return btw, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// runStage executes fn between stage hooks and returns its result.
func (r *Runner) runStage(ctx context.Context, stage string, fn func() []float64) []float64 {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, stage)
	start := time.Now()
	out := fn()
	hooks.OnStageComplete(ctx, stage, time.Since(start), nil)
	return out
}

// cachedFloats fetches a cached float vector, guarding against stale entries
// whose length no longer matches the graph. Cache failures degrade to a miss.
func (r *Runner) cachedFloats(ctx context.Context, key, keyType string, opts Options, want int) ([]float64, bool) {
	if opts.Refresh {
		return nil, false
	}
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var cached []float64
		if json.Unmarshal(data, &cached) == nil && len(cached) == want {
			observability.Cache().OnCacheHit(ctx, keyType)
			return cached, true
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return nil, false
}

// storeJSON writes an analysis result to the cache, ignoring cache failures.
func (r *Runner) storeJSON(ctx context.Context, key, keyType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if r.Cache.Set(ctx, key, data, cache.TTLAnalysis) == nil {
		observability.Cache().OnCacheSet(ctx, keyType, len(data))
	}
}
