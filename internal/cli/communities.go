package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// communitiesCommand creates the communities command.
func (c *CLI) communitiesCommand() *cobra.Command {
	var (
		refresh bool
		members bool
	)

	cmd := &cobra.Command{
		Use:   "communities <file>",
		Short: "Detect community structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCommunities(cmd.Context(), args[0], refresh, members)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&members, "members", false, "list every node's assignment")

	return cmd
}

func (c *CLI) runCommunities(ctx context.Context, path string, refresh, members bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx)
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.Refresh = refresh
	popts.WithCommunities = true

	spinner := newSpinnerWithContext(ctx, "detecting communities...")
	spinner.Start()
	result, err := runner.Execute(ctx, data, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	assignments := result.Communities
	count := 0
	for _, a := range assignments {
		if a >= count {
			count = a + 1
		}
	}
	sizes := make([]int, count)
	for _, a := range assignments {
		sizes[a]++
	}

	printStats(result.Graph.NodeCount(), result.Graph.EdgeCount(), result.CacheInfo.CommunityHit)
	printNewline()
	printKeyValue("communities", fmt.Sprintf("%d", count))
	for id, size := range sizes {
		printDetail("community %d: %d nodes", id, size)
	}

	if !members {
		return nil
	}

	printNewline()
	nodes := result.Graph.Nodes()
	for i, a := range assignments {
		label := nodes[i].Label
		if label == "" {
			label = fmt.Sprintf("#%d", nodes[i].ID)
		}
		fmt.Printf("%s %s\n",
			StyleValue.Render(fmt.Sprintf("%-24s", label)),
			StyleNumber.Render(fmt.Sprintf("%d", a)))
	}
	return nil
}
