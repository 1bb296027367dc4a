// Package cli implements the masonry command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/buildinfo"
	"github.com/matzehuels/masonry/pkg/cache"
	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/items"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "masonry"

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

	// Config is loaded before any subcommand runs.
	Config *Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
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
		Short: "Masonry lays out items in a round-robin column grid",
		Long: `Masonry computes Pinterest-style grid layouts: items are dealt across
equal-width columns in order and stacked top to bottom. Layouts can be queried
by viewport, rendered to SVG/PNG/PDF/JSON, browsed in the terminal, or served
over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./masonry.toml or ~/.config/masonry/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// loadManifest reads a manifest from a local file or an http(s) URL. URL
// downloads share the runner's cache.
func (c *CLI) loadManifest(ctx context.Context, runner *pipeline.Runner, src string, refresh bool) (*items.Manifest, error) {
	if !items.IsURL(src) {
		return items.Load(src)
	}
	f := items.NewFetcher(runner.Cache, c.Logger)
	f.Refresh = refresh
	return f.Fetch(ctx, src)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/masonry/).
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

// configDir returns the config directory using XDG standard (~/.config/masonry/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutOptions fills layout options from the config file for every flag the
// user did not set explicitly. Explicit zero geometry is rejected rather than
// defaulted.
func (c *CLI) layoutOptions(cmd *cobra.Command, opts *pipeline.Options) error {
	cfg := c.Config.Layout
	flags := cmd.Flags()
	if !flags.Changed("columns") && cfg.Columns > 0 {
		opts.Columns = cfg.Columns
	}
	if !flags.Changed("width") && cfg.Width > 0 {
		opts.Width = cfg.Width
	}
	if !flags.Changed("caption-height") && cfg.CaptionHeight > 0 {
		opts.CaptionHeight = cfg.CaptionHeight
	}
	if flags.Lookup("labels") != nil && !flags.Changed("labels") && cfg.Labels {
		opts.Labels = true
	}
	opts.Logger = c.Logger

	if err := merrors.ValidateColumns(opts.Columns); err != nil {
		return err
	}
	if err := merrors.ValidateWidth(opts.Width); err != nil {
		return err
	}
	if opts.CaptionHeight < 0 {
		return merrors.New(merrors.ErrCodeInvalidConfiguration, "caption height cannot be negative, got %v", opts.CaptionHeight)
	}
	return nil
}

// addLayoutFlags registers the geometry flags shared by layout, render and
// browse.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().IntVarP(&opts.Columns, "columns", "c", pipeline.DefaultColumns, "number of columns")
	cmd.Flags().Float64VarP(&opts.Width, "width", "w", pipeline.DefaultWidth, "container width")
	cmd.Flags().Float64Var(&opts.CaptionHeight, "caption-height", 0, "caption band added below every item (overrides the manifest)")
}
