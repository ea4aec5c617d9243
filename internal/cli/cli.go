// Package cli implements the kklayout command-line interface.
//
// This package provides commands for computing Kamada-Kawai layouts of
// graph files, serving layouts over HTTP, and managing the layout cache.
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a layout for a graph.json file
//   - serve: Run the HTTP API
//   - cache: Inspect and clear the layout cache
//   - completion: Generate shell completion scripts
//
// # Configuration
//
// Settings are read from --config, or from config.toml / config.yaml in
// $XDG_CONFIG_HOME/kklayout. Flags given on the command line win over the
// file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kklayout/pkg/buildinfo"
	"github.com/matzehuels/kklayout/pkg/cache"
	"github.com/matzehuels/kklayout/pkg/config"
	"github.com/matzehuels/kklayout/pkg/errors"
	"github.com/matzehuels/kklayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "kklayout"

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
	Config config.Config

	out *console

	configPath string
	cacheURL   string
	noCache    bool
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    newConsole(nil),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "kklayout computes Kamada-Kawai graph layouts",
		Long: `kklayout places the vertices of an undirected graph in the plane with the
Kamada-Kawai spring model: every pair of vertices is joined by a spring whose
rest length is their graph-theoretic distance.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/kklayout/config.toml)")
	pf.StringVar(&c.cacheURL, "cache", "", "cache location: directory, redis:// or mongodb:// URL")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable caching")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies flag overrides and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
		if err == nil {
			cfg.ApplyEnv()
		}
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.URL = c.cacheURL
	}
	if c.noCache {
		cfg.Cache.Disabled = true
	}
	c.Config = cfg
	c.out = newConsole(cmd.OutOrStdout())

	level := LogInfo
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		level = lvl
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, keyer cache.Keyer) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("cache", "backend", cache.Describe(ch))
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// openCache opens the configured cache. An unusable default directory
// disables caching rather than failing.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	if c.Config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	loc, err := c.cacheLocation()
	if err != nil {
		c.Logger.Warn("caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	if err := errors.ValidateCacheURL(loc); err != nil {
		return nil, err
	}
	return cache.Open(ctx, loc)
}

// cacheLocation returns the configured cache URL or the per-user cache
// directory.
func (c *CLI) cacheLocation() (string, error) {
	if c.Config.Cache.URL != "" {
		return c.Config.Cache.URL, nil
	}
	return cacheDir()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/kklayout/).
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
