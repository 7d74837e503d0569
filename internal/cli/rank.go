package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bloomlab/bloom/pkg/graph"
)

// rankOpts holds the command-line flags for the rank command.
type rankOpts struct {
	iterations int
	damping    float64
	top        int
	refresh    bool
}

// rankCommand creates the rank command.
func (c *CLI) rankCommand() *cobra.Command {
	var opts rankOpts

	cmd := &cobra.Command{
		Use:   "rank <file>",
		Short: "Rank nodes by centrality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRank(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "iteration count (default from config)")
	cmd.Flags().Float64Var(&opts.damping, "damping", 0, "damping factor (default from config)")
	cmd.Flags().IntVar(&opts.top, "top", 10, "number of nodes to show (0 = all)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")

	return cmd
}

func (c *CLI) runRank(ctx context.Context, path string, opts rankOpts) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx)
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.Refresh = opts.refresh
	if opts.iterations != 0 {
		popts.Iterations = opts.iterations
	}
	if opts.damping != 0 {
		popts.Damping = opts.damping
	}

	spinner := newSpinnerWithContext(ctx, "ranking nodes...")
	spinner.Start()
	result, err := runner.Execute(ctx, data, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	printStats(result.Graph.NodeCount(), result.Graph.EdgeCount(), result.CacheInfo.ScoreHit)
	printScoreTable(result.Graph, result.Scores, opts.top)
	return nil
}

// printScoreTable prints nodes sorted by score, highest first. Ties break
// toward the lower node index. top of 0 prints everything.
func printScoreTable(g *graph.Graph, scores []float64, top int) {
	nodes := g.Nodes()
	order := make([]int, len(nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if top > 0 && top < len(order) {
		order = order[:top]
	}

	printNewline()
	for rank, idx := range order {
		n := nodes[idx]
		label := n.Label
		if label == "" {
			label = fmt.Sprintf("#%d", n.ID)
		}
		fmt.Printf("%s %s %s\n",
			StyleDim.Render(fmt.Sprintf("%3d.", rank+1)),
			StyleValue.Render(fmt.Sprintf("%-24s", label)),
			StyleNumber.Render(fmt.Sprintf("%.6f", scores[idx])))
	}
}
