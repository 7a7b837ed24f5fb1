// Package cli implements the ioflow command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mbertsch/ioflow/pkg/buildinfo"
	"github.com/mbertsch/ioflow/pkg/cache"
	"github.com/mbertsch/ioflow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "ioflow"
)

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

	// ConfigPath is the explicit --config flag value; empty means the
	// default lookup (./ioflow.toml, then the XDG config directory).
	ConfigPath string

	cfg *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "ioflow",
		Short:        "ioflow traces input-output dependencies through gate-level netlists",
		Long:         `ioflow analyzes flattened gate-level netlists and reports, for every output bit of every combinational module, the exact set of input bits it depends on. Sequential modules are detected and reported without dependency resolution.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "path to ioflow.toml (default: ./ioflow.toml)")

	// Register all subcommands
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factories
// =============================================================================

// config loads the TOML config once and memoizes it. A missing config
// file is not an error; defaults apply.
func (c *CLI) config() (*Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := LoadConfig(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	backend, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, cfg *Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	backend, err := cfg.OpenCache(ctx)
	if err != nil {
		c.Logger.Warnf("Cache disabled: %v", err)
		return cache.NewNullCache(), nil
	}
	return backend, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/ioflow/).
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
