package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bloomlab/bloom/pkg/wire"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	stats bool // decode the full payload for degree/label statistics
}

// inspectCommand creates the inspect command. It peeks at the fixed-size
// header without decoding the body, so it works instantly on any file size;
// --stats adds a full decode.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show header information for a graph snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.stats, "stats", false, "decode the full payload and show graph statistics")

	return cmd
}

func (c *CLI) runInspect(path string, opts inspectOpts) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	header, err := wire.DecodeHeader(data)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}

	printKeyValue("file", path)
	printKeyValue("version", fmt.Sprintf("%d", header.Version))
	printKeyValue("nodes", fmt.Sprintf("%d", header.NodeCount))
	printKeyValue("edges", fmt.Sprintf("%d", header.EdgeCount))
	printKeyValue("labels", fmt.Sprintf("%t", header.HasLabels()))
	printKeyValue("compressed", fmt.Sprintf("%t", header.Compressed()))

	if !opts.stats {
		return nil
	}

	g, err := wire.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	var maxDegree, isolated int
	for _, n := range g.Nodes() {
		if int(n.Degree) > maxDegree {
			maxDegree = int(n.Degree)
		}
		if n.Degree == 0 {
			isolated++
		}
	}

	printNewline()
	printKeyValue("max degree", fmt.Sprintf("%d", maxDegree))
	printKeyValue("isolated", fmt.Sprintf("%d", isolated))

	return nil
}
