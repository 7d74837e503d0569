package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// betweennessCommand creates the betweenness command.
func (c *CLI) betweennessCommand() *cobra.Command {
	var (
		top     int
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "betweenness <file>",
		Short: "Rank nodes by betweenness centrality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBetweenness(cmd.Context(), args[0], top, refresh)
		},
	}

	cmd.Flags().IntVar(&top, "top", 10, "number of nodes to show (0 = all)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cache")

	return cmd
}

func (c *CLI) runBetweenness(ctx context.Context, path string, top int, refresh bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx)
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.Refresh = refresh
	popts.WithBetweenness = true

	spinner := newSpinnerWithContext(ctx, "computing betweenness...")
	spinner.Start()
	result, err := runner.Execute(ctx, data, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	printStats(result.Graph.NodeCount(), result.Graph.EdgeCount(), result.CacheInfo.BetweennessHit)
	printScoreTable(result.Graph, result.Betweenness, top)
	return nil
}
