package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bloomlab/bloom/pkg/analytics"
	"github.com/bloomlab/bloom/pkg/wire"
)

// pathCommand creates the path command.
func (c *CLI) pathCommand() *cobra.Command {
	var from, to uint32

	cmd := &cobra.Command{
		Use:   "path <file> --from <id> --to <id>",
		Short: "Find the shortest path between two nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPath(args[0], from, to)
		},
	}

	cmd.Flags().Uint32Var(&from, "from", 0, "source node id")
	cmd.Flags().Uint32Var(&to, "to", 0, "target node id")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (c *CLI) runPath(path string, from, to uint32) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	g, err := wire.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	hops, ok := analytics.ShortestPath(g, from, to)
	if !ok {
		return fmt.Errorf("no path from %d to %d", from, to)
	}

	nodes := g.Nodes()
	parts := make([]string, len(hops))
	for i, idx := range hops {
		label := nodes[idx].Label
		if label == "" {
			label = fmt.Sprintf("#%d", nodes[idx].ID)
		}
		parts[i] = StyleValue.Render(label)
	}

	printKeyValue("hops", fmt.Sprintf("%d", len(hops)-1))
	fmt.Println(strings.Join(parts, StyleDim.Render(" "+iconArrow+" ")))
	return nil
}
