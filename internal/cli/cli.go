// Package cli implements the bloom command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bloomlab/bloom/pkg/buildinfo"
	"github.com/bloomlab/bloom/pkg/cache"
	"github.com/bloomlab/bloom/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "bloom"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "bloom",
		Short:        "Bloom analyzes binary graph snapshots",
		Long:         `Bloom is a graph-analytics engine: it decodes binary graph snapshots, ranks nodes by centrality, detects communities, finds shortest paths, and answers spatial queries over node positions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/bloom/bloom.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable result caching")

	// Register all subcommands
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.rankCommand())
	root.AddCommand(c.communitiesCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.betweennessCommand())
	root.AddCommand(c.nearCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.topCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) *pipeline.Runner {
	backend, err := c.newCache(ctx)
	if err != nil {
		printWarning("cache unavailable, running without (%v)", err)
		backend = cache.NewNullCache()
	}
	return pipeline.NewRunner(backend, nil, c.Logger)
}

// newCache builds the cache backend the config selects. File is the default;
// any failure to set one up degrades to no caching rather than failing the
// command.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}

	cfg := c.Config.Cache
	switch cfg.Backend {
	case "", "file":
		dir := cfg.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cfg.Addr, cfg.Password, cfg.DB)
	case "mongo":
		return cache.NewMongoCache(ctx, cfg.URI, cfg.Database, cfg.Collection)
	case "none":
		return cache.NewNullCache(), nil
	default:
		printWarning("unknown cache backend %q, caching disabled", cfg.Backend)
		return cache.NewNullCache(), nil
	}
}

// pipelineOptions builds pipeline options from config defaults.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Damping:    c.Config.Analysis.Damping,
		Iterations: c.Config.Analysis.Iterations,
		Logger:     c.Logger,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bloom/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
