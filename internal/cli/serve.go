package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/bloomlab/bloom/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		datasets string
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the bloom HTTP API.

Datasets are .bloom files loaded from --datasets at startup and queryable
under /v1/datasets. With --watch the directory is monitored and changed
files are reloaded without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}
			if datasets != "" {
				cfg.Datasets = datasets
			}
			if cmd.Flags().Changed("watch") {
				cfg.Watch = watch
			}

			srv, err := server.New(server.Options{
				Addr:       cfg.Addr,
				DatasetDir: cfg.Datasets,
				Watch:      cfg.Watch,
				Logger:     c.Logger,
			})
			if err != nil {
				return err
			}

			host := cfg.Addr
			if strings.HasPrefix(host, ":") {
				host = "localhost" + host
			}
			printInfo("api at %s", StyleLink.Render("http://"+host))
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().StringVar(&datasets, "datasets", "", "directory of .bloom dataset files")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload datasets on file changes")

	return cmd
}
