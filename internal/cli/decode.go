package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bloomlab/bloom/pkg/export"
	"github.com/bloomlab/bloom/pkg/wire"
)

// decodeCommand creates the decode command: binary snapshot in, JSON out.
func (c *CLI) decodeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Decode a binary graph snapshot to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDecode(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runDecode(path, output string) error {
	prog := newProgress(c.Logger)

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	g, err := wire.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := export.WriteJSON(g, out); err != nil {
		return err
	}
	if output != "" {
		prog.done(fmt.Sprintf("wrote %s (%d nodes, %d edges)", output, g.NodeCount(), g.EdgeCount()))
	}
	return nil
}
