package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bloomlab/bloom/pkg/export"
	"github.com/bloomlab/bloom/pkg/wire"
)

// encodeCommand creates the encode command: JSON graph in, binary out.
func (c *CLI) encodeCommand() *cobra.Command {
	var (
		output      string
		forceLabels bool
	)

	cmd := &cobra.Command{
		Use:   "encode <file.json>",
		Short: "Encode a JSON graph as a binary snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEncode(args[0], output, forceLabels)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&forceLabels, "force-labels", false, "emit a string table even when all labels are empty")

	return cmd
}

func (c *CLI) runEncode(path, output string, forceLabels bool) error {
	g, err := export.ImportJSON(path)
	if err != nil {
		return err
	}

	data, err := wire.Encode(g, wire.EncodeOptions{ForceLabels: forceLabels})
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if output != "" {
		printSuccess("wrote %s (%d bytes)", output, len(data))
		printNextStep("inspect the result", "bloom inspect "+output)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
