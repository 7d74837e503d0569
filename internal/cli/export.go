package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/bloomlab/bloom/pkg/errors"
	"github.com/bloomlab/bloom/pkg/export"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	format string
	output string
	rank   bool
}

// exportCommand creates the export command. With --rank the graph is run
// through the pipeline first so the output carries centrality scores.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a graph snapshot as JSON or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "json", "output format (json or dot)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.rank, "rank", false, "compute scores before exporting")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, path string, opts exportOpts) error {
	if err := errors.ValidateExportFormat(opts.format); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx)
	defer runner.Close()

	popts := c.pipelineOptions()
	g, _, err := runner.Decode(ctx, data, popts)
	if err != nil {
		return err
	}
	if opts.rank {
		result, err := runner.Execute(ctx, data, popts)
		if err != nil {
			return err
		}
		g = result.Graph
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	switch opts.format {
	case "json":
		err = export.WriteJSON(g, out)
	case "dot":
		err = export.WriteDOT(g, out, export.DOTOptions{Scores: opts.rank})
	}
	if err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("exported %s", opts.output)
		printFile(opts.output)
	}
	return nil
}
